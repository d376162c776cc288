package contract

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	baseabi "github.com/peermarket/goapi/base/abi"
	bCtx "github.com/peermarket/goapi/base/ctx"
	"github.com/peermarket/goapi/domain"
	"github.com/peermarket/goapi/service/cache"
	"github.com/peermarket/goapi/service/chain"
)

// AccessControlContract resolves the platform administrator account that
// receives the royalty share.
type AccessControlContract interface {
	Administrator(ctx bCtx.Ctx, chainId int32) (domain.Address, error)
}

type AccessControl struct {
	chainService chain.Client
	// marketplaces is the ownable marketplace contract per chain
	marketplaces map[int32]string
	cache        cache.Service
}

func NewAccessControl(chainService chain.Client, marketplaces map[int32]string, cache cache.Service) *AccessControl {
	return &AccessControl{
		chainService: chainService,
		marketplaces: marketplaces,
		cache:        cache,
	}
}

func (a *AccessControl) Administrator(ctx bCtx.Ctx, chainId int32) (domain.Address, error) {
	marketplace, ok := a.marketplaces[chainId]
	if !ok {
		return "", chain.ErrUnsupportedChain
	}

	var admin domain.Address
	key := fmt.Sprintf("administrator:%d", chainId)
	err := a.cache.GetByFunc(ctx, key, &admin, func() (interface{}, error) {
		unpacked, err := a.chainService.Call(ctx, chainId, common.HexToAddress(marketplace), nil, baseabi.OwnableABI, "owner")
		if err != nil {
			return nil, err
		}
		res := domain.Address(unpacked[0].(common.Address).String()).ToLower()
		return &res, nil
	})
	if err != nil {
		return "", err
	}
	return admin, nil
}

var _ AccessControlContract = (*AccessControl)(nil)
