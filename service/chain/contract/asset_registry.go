package contract

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	baseabi "github.com/peermarket/goapi/base/abi"
	bCtx "github.com/peermarket/goapi/base/ctx"
	"github.com/peermarket/goapi/base/log"
	"github.com/peermarket/goapi/domain"
	"github.com/peermarket/goapi/service/chain"
)

// AssetRegistryContract is the system of record for asset ownership. The
// marketplace consults it for transfer approval and drives the ownership
// transfer during settlement, nothing else.
type AssetRegistryContract interface {
	IsApprovedForAll(ctx bCtx.Ctx, chainId int32, registry string, owner string, operator string) (bool, error)
	SafeTransferFrom(ctx bCtx.Ctx, chainId int32, registry string, from string, to string, tokenId *big.Int) error
}

type AssetRegistry struct {
	chainService chain.Client
}

func NewAssetRegistry(chainService chain.Client) *AssetRegistry {
	return &AssetRegistry{chainService: chainService}
}

func (r *AssetRegistry) IsApprovedForAll(ctx bCtx.Ctx, chainId int32, registry string, owner string, operator string) (bool, error) {
	method := "isApprovedForAll"
	unpacked, err := r.chainService.Call(ctx, chainId, common.HexToAddress(registry), nil, baseabi.AssetRegistryABI, method, common.HexToAddress(owner), common.HexToAddress(operator))
	if err != nil {
		return false, err
	}
	return unpacked[0].(bool), nil
}

func (r *AssetRegistry) SafeTransferFrom(ctx bCtx.Ctx, chainId int32, registry string, from string, to string, tokenId *big.Int) error {
	method := "safeTransferFrom"
	_, err := r.chainService.Transact(ctx, chainId, common.HexToAddress(registry), baseabi.AssetRegistryABI, method, common.HexToAddress(from), common.HexToAddress(to), tokenId)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":      err,
			"registry": registry,
			"tokenId":  tokenId.String(),
		}).Warn("asset transfer failed")
		return err
	}
	return nil
}

var _ AssetRegistryContract = (*AssetRegistry)(nil)

// AssetIdToBigInt parses a domain token id for contract calls.
func AssetIdToBigInt(tokenId domain.TokenId) (*big.Int, error) {
	id, ok := new(big.Int).SetString(tokenId.String(), 10)
	if !ok {
		return nil, domain.ErrInvalidNumberFormat
	}
	return id, nil
}
