package utils

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vnkhanh/visa-rent-server/config"
)

// TokenTTL is the lifetime of an admin session token.
const TokenTTL = 30 * 24 * time.Hour

var ErrMissingSecret = errors.New("JWT_SECRET is not set")

type JWTClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func jwtKey() ([]byte, error) {
	key := []byte(config.Get().JWTSecret)
	if len(key) == 0 {
		return nil, ErrMissingSecret
	}
	return key, nil
}

// GenerateToken signs an HS256 token for the given user.
func GenerateToken(userID uint, email, role string) (string, error) {
	key, err := jwtKey()
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := JWTClaims{
		UserID: strconv.FormatUint(uint64(userID), 10),
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// VerifyToken parses tokenStr and checks signature and expiry.
func VerifyToken(tokenStr string) (*JWTClaims, error) {
	key, err := jwtKey()
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenStr, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
