package contract

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	baseabi "github.com/peermarket/goapi/base/abi"
	bCtx "github.com/peermarket/goapi/base/ctx"
	"github.com/peermarket/goapi/base/log"
	"github.com/peermarket/goapi/service/chain"
)

// ValueTransferContract moves payment between accounts. A transfer either
// lands in full or not at all; there are no partial transfers.
type ValueTransferContract interface {
	Send(ctx bCtx.Ctx, chainId int32, to string, amount *big.Int) error
}

type ValueTransfer struct {
	chainService chain.Client
	// payToken is the value token contract per chain
	payTokens map[int32]string
}

func NewValueTransfer(chainService chain.Client, payTokens map[int32]string) *ValueTransfer {
	return &ValueTransfer{chainService: chainService, payTokens: payTokens}
}

func (v *ValueTransfer) Send(ctx bCtx.Ctx, chainId int32, to string, amount *big.Int) error {
	payToken, ok := v.payTokens[chainId]
	if !ok {
		return chain.ErrUnsupportedChain
	}
	method := "transfer"
	_, err := v.chainService.Transact(ctx, chainId, common.HexToAddress(payToken), baseabi.PayTokenABI, method, common.HexToAddress(to), amount)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":    err,
			"to":     to,
			"amount": amount.String(),
		}).Warn("value transfer failed")
		return err
	}
	return nil
}

var _ ValueTransferContract = (*ValueTransfer)(nil)
