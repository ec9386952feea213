package account

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// verification and reset links carry signed, time-limited tokens with
// a purpose claim so one flow's token cannot be replayed in the other
const (
	purposeVerify = "verify"
	purposeReset  = "reset"
)

var ErrInvalidToken = fmt.Errorf("invalid or expired token")

type linkClaims struct {
	jwt.RegisteredClaims
	UserID  int64  `json:"uid"`
	Purpose string `json:"op"`
}

func signLinkToken(secret []byte, userID int64, purpose string, maxAge time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, linkClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(maxAge)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID:  userID,
		Purpose: purpose,
	})
	return token.SignedString(secret)
}

// parseLinkToken rejects expired, tampered and wrong-purpose tokens
// with one uniform error.
func parseLinkToken(secret []byte, tokenString, purpose string) (int64, error) {
	claims := &linkClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}
	if claims.Purpose != purpose {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}
