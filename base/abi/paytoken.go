package abi

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

var PayTokenABI abi.ABI

var payTokenABI = `[{"type":"function","name":"transfer","constant":false,"payable":false,"inputs":[{"type":"address","name":"_to"},{"type":"uint256","name":"_value"}],"outputs":[{"type":"bool"}]},{"type":"function","name":"transferFrom","constant":false,"payable":false,"inputs":[{"type":"address","name":"_from"},{"type":"address","name":"_to"},{"type":"uint256","name":"_value"}],"outputs":[{"type":"bool"}]},{"type":"function","name":"balanceOf","constant":true,"stateMutability":"view","payable":false,"inputs":[{"type":"address","name":"_owner"}],"outputs":[{"type":"uint256"}]},{"type":"event","anonymous":false,"name":"Transfer","inputs":[{"type":"address","name":"_from","indexed":true},{"type":"address","name":"_to","indexed":true},{"type":"uint256","name":"_value"}]}]`

func init() {
	_abi, err := abi.JSON(strings.NewReader(payTokenABI))
	if err != nil {
		panic(err)
	}
	PayTokenABI = _abi
}
