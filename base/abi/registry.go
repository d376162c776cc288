package abi

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

var AssetRegistryABI abi.ABI

var assetRegistryABI = `[{"type":"function","name":"isApprovedForAll","constant":true,"stateMutability":"view","payable":false,"inputs":[{"type":"address","name":"_owner"},{"type":"address","name":"_operator"}],"outputs":[{"type":"bool"}]},{"type":"function","name":"ownerOf","constant":true,"stateMutability":"view","payable":false,"inputs":[{"type":"uint256","name":"_tokenId"}],"outputs":[{"type":"address"}]},{"type":"function","name":"safeTransferFrom","constant":false,"payable":false,"inputs":[{"type":"address","name":"_from"},{"type":"address","name":"_to"},{"type":"uint256","name":"_tokenId"}],"outputs":[]},{"type":"event","anonymous":false,"name":"Transfer","inputs":[{"type":"address","name":"_from","indexed":true},{"type":"address","name":"_to","indexed":true},{"type":"uint256","name":"_tokenId","indexed":true}]}]`

func init() {
	_abi, err := abi.JSON(strings.NewReader(assetRegistryABI))
	if err != nil {
		panic(err)
	}
	AssetRegistryABI = _abi
}
