package jwtlocal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"union-ganadera/internal/ports/auth"
)

var (
	ErrSecretRequired = errors.New("jwt secret required")
	ErrInvalidToken   = errors.New("invalid token")
)

// Verifier valida tokens HMAC emitidos por el servicio de login.
// La emisión de tokens vive fuera de este servicio.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) (*Verifier, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrSecretRequired
	}
	return &Verifier{secret: []byte(secret)}, nil
}

func (v *Verifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrInvalidToken
	}

	tok, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !tok.Valid {
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return auth.Claims{}, ErrInvalidToken
	}

	// user id: sub, user_id o id (en ese orden)
	var userID string
	for _, k := range []string{"sub", "user_id", "id"} {
		if s := strClaim(mc, k); s != "" {
			userID = s
			break
		}
	}
	if userID == "" {
		return auth.Claims{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return auth.Claims{
		UserID: userID,
		Role:   auth.ParseRole(strClaim(mc, "role")),
		Email:  strClaim(mc, "email"),
	}, nil
}

func strClaim(mc jwt.MapClaims, key string) string {
	if s, ok := mc[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
