package domain

import (
	"github.com/golang-jwt/jwt"
	"github.com/peermarket/goapi/base/ctx"
)

type JwtCustomClaims struct {
	Address string `json:"data"`
	jwt.StandardClaims
}

type AuthUsecase interface {
	// SignToken verifies the personal-sign signature over message and
	// issues an access token for the recovered address.
	SignToken(ctx ctx.Ctx, address Address, message, signature string) (string, error)
	ParseToken(ctx ctx.Ctx, token string) (address string, err error)
}
