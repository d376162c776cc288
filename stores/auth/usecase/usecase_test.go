package usecase_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"

	"github.com/peermarket/goapi/base/ctx"
	"github.com/peermarket/goapi/domain"
	"github.com/peermarket/goapi/stores/auth/usecase"
)

func signMessage(t *testing.T, message string) (domain.Address, string) {
	key, err := crypto.GenerateKey()
	assert.NoError(t, err)

	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	assert.NoError(t, err)
	// wallets report the recovery id as 27/28
	sig[crypto.RecoveryIDOffset] += 27

	address := domain.Address(crypto.PubkeyToAddress(key.PublicKey).Hex()).ToLower()
	return address, hexutil.Encode(sig)
}

func TestSignAndParseToken(t *testing.T) {
	message := "login to peermarket"
	address, signature := signMessage(t, message)

	ctx := ctx.Background()
	u := usecase.New("jwt-secret")

	tkn, err := u.SignToken(ctx, address, message, signature)
	assert.NoError(t, err)
	assert.NotEmpty(t, tkn)

	ads, err := u.ParseToken(ctx, tkn)
	assert.NoError(t, err)
	assert.Equal(t, address.ToLowerStr(), ads)
}

func TestSignTokenWrongAddress(t *testing.T) {
	message := "login to peermarket"
	_, signature := signMessage(t, message)

	ctx := ctx.Background()
	u := usecase.New("jwt-secret")

	_, err := u.SignToken(ctx, "0xbc4ca0eda7647a8ab7c2061c2e118a18a936f13d", message, signature)
	assert.Equal(t, domain.ErrInvalidSignature, err)
}

func TestSignTokenTamperedMessage(t *testing.T) {
	address, signature := signMessage(t, "login to peermarket")

	ctx := ctx.Background()
	u := usecase.New("jwt-secret")

	_, err := u.SignToken(ctx, address, "another message", signature)
	assert.Equal(t, domain.ErrInvalidSignature, err)
}

func TestParseTokenGarbage(t *testing.T) {
	ctx := ctx.Background()
	u := usecase.New("jwt-secret")

	_, err := u.ParseToken(ctx, "not-a-token")
	assert.Error(t, err)
}
