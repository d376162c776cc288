package chain

import (
	"crypto/ecdsa"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	bCtx "github.com/peermarket/goapi/base/ctx"
	bEthereum "github.com/peermarket/goapi/base/ethereum"
	"github.com/peermarket/goapi/base/log"
)

var (
	ErrUnsupportedChain = errors.New("unsupported chain")
	ErrTxReverted       = errors.New("transaction reverted")
	ErrNoSigner         = errors.New("no signing key configured")
)

const (
	receiptPollInterval = 2 * time.Second
	defaultRpcThrottle  = 10
)

type ClientCfg struct {
	RpcUrls map[int32]string
	// SignerKey is the hex-encoded private key of the marketplace
	// operator account, used for settlement transactions.
	SignerKey string
	// RpcThrottle caps concurrent rpc calls per node.
	RpcThrottle int
}

type Client interface {
	Call(bCtx.Ctx, int32, common.Address, *big.Int, abi.ABI, string, ...interface{}) ([]interface{}, error)
	// Transact signs, sends and waits for a state-changing call. The
	// returned error is non-nil when the transaction could not be mined
	// or was reverted.
	Transact(bCtx.Ctx, int32, common.Address, abi.ABI, string, ...interface{}) (*types.Receipt, error)
	Operator() common.Address
}

type clientImpl struct {
	clients  map[int32]*bEthereum.ThrottledClient
	signer   *ecdsa.PrivateKey
	operator common.Address
}

func NewClient(ctx bCtx.Ctx, cfg *ClientCfg) (Client, error) {
	var (
		anyerr error
	)
	throttle := cfg.RpcThrottle
	if throttle <= 0 {
		throttle = defaultRpcThrottle
	}
	clients := make(map[int32]*bEthereum.ThrottledClient)
	for chainId, url := range cfg.RpcUrls {
		client, err := ethclient.DialContext(ctx, url)
		if err != nil {
			anyerr = err
			ctx.WithFields(log.Fields{
				"err":     err,
				"chainId": chainId,
				"url":     url,
			}).Warn("failed to dial rpc")
			// soft warning, still let the server start
			continue
		}
		clients[chainId] = bEthereum.NewThrottledClient(client, throttle)
	}
	im := &clientImpl{clients: clients}
	if cfg.SignerKey != "" {
		key, err := crypto.HexToECDSA(cfg.SignerKey)
		if err != nil {
			return nil, err
		}
		im.signer = key
		im.operator = crypto.PubkeyToAddress(key.PublicKey)
	}
	return im, anyerr
}

func (c *clientImpl) Operator() common.Address {
	return c.operator
}

func (c *clientImpl) Call(ctx bCtx.Ctx, chainId int32, addr common.Address, blk *big.Int, _abi abi.ABI, method string, params ...interface{}) ([]interface{}, error) {
	client, ok := c.clients[chainId]
	if !ok {
		return nil, ErrUnsupportedChain
	}

	data, err := _abi.Pack(method, params...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"method": method,
			"params": params,
			"err":    err,
		}).Error("abi.Pack failed")
		return nil, err
	}
	msg := ethereum.CallMsg{
		To:   &addr,
		Data: data,
	}
	res, err := client.CallContract(ctx, msg, blk)
	if err != nil {
		ctx.WithField("err", err).Error("client.CallContract failed")
		return nil, err
	}
	unpacked, err := _abi.Unpack(method, res)
	if err != nil {
		ctx.WithField("err", err).Error("abi.Unpack failed")
		return nil, err
	}
	return unpacked, nil
}

func (c *clientImpl) Transact(ctx bCtx.Ctx, chainId int32, addr common.Address, _abi abi.ABI, method string, params ...interface{}) (*types.Receipt, error) {
	if c.signer == nil {
		return nil, ErrNoSigner
	}
	client, ok := c.clients[chainId]
	if !ok {
		return nil, ErrUnsupportedChain
	}

	data, err := _abi.Pack(method, params...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"method": method,
			"params": params,
			"err":    err,
		}).Error("abi.Pack failed")
		return nil, err
	}

	nonce, err := client.PendingNonceAt(ctx, c.operator)
	if err != nil {
		ctx.WithField("err", err).Error("client.PendingNonceAt failed")
		return nil, err
	}
	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		ctx.WithField("err", err).Error("client.SuggestGasPrice failed")
		return nil, err
	}
	gasLimit, err := client.EstimateGas(ctx, ethereum.CallMsg{
		From: c.operator,
		To:   &addr,
		Data: data,
	})
	if err != nil {
		// estimation fails for calls that would revert
		ctx.WithFields(log.Fields{
			"err":    err,
			"method": method,
		}).Warn("client.EstimateGas failed")
		return nil, err
	}

	tx := types.NewTransaction(nonce, addr, big.NewInt(0), gasLimit, gasPrice, data)
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(big.NewInt(int64(chainId))), c.signer)
	if err != nil {
		ctx.WithField("err", err).Error("types.SignTx failed")
		return nil, err
	}
	if err := client.SendTransaction(ctx, signed); err != nil {
		ctx.WithField("err", err).Error("client.SendTransaction failed")
		return nil, err
	}

	receipt, err := c.waitMined(ctx, client, signed.Hash())
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		ctx.WithFields(log.Fields{
			"txHash": signed.Hash().Hex(),
			"method": method,
		}).Warn("transaction reverted")
		return receipt, ErrTxReverted
	}
	return receipt, nil
}

func (c *clientImpl) waitMined(ctx bCtx.Ctx, client *bEthereum.ThrottledClient, txHash common.Hash) (*types.Receipt, error) {
	for {
		receipt, err := client.TransactionReceipt(ctx, txHash)
		if err == nil {
			return receipt, nil
		}
		if err != ethereum.NotFound {
			ctx.WithField("err", err).Error("client.TransactionReceipt failed")
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(receiptPollInterval):
		}
	}
}
