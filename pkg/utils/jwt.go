package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alimikegami/e-commerce/storefront-service/pkg/errs"
	"github.com/golang-jwt/jwt"
)

// UserClaims carries only what authorization needs. Everything else about the
// user is read from the store.
type UserClaims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

func CreateJWTToken(userID string, role string, jwtSecretKey string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := UserClaims{
		UserID: userID,
		Role:   role,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(jwtSecretKey))
}

// ParseJWTToken verifies the signature and expiry of tokenString. An optional
// "Bearer " prefix is ignored.
func ParseJWTToken(tokenString string, jwtSecretKey string) (*UserClaims, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))

	claims := &UserClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(jwtSecretKey), nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, fmt.Errorf("%w: %v", errs.ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return nil, errs.ErrInvalidToken
	}

	return claims, nil
}
