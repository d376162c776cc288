package abi

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

var OwnableABI abi.ABI

var ownableABI = `[{"type":"function","name":"owner","constant":true,"stateMutability":"view","payable":false,"inputs":[],"outputs":[{"type":"address"}]}]`

func init() {
	_abi, err := abi.JSON(strings.NewReader(ownableABI))
	if err != nil {
		panic(err)
	}
	OwnableABI = _abi
}
