package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret = []byte("comanda-dev-secret")

const tokenTTL = 24 * time.Hour

// SetJWTSecret dipanggil sekali dari config sebelum server jalan.
func SetJWTSecret(secret string) {
	if secret == "" {
		InfoLogger.Warn("JWT_SECRET not set, using development secret")
		return
	}
	jwtSecret = []byte(secret)
}

type CustomClaims struct {
	UserID     string `json:"user_id"`
	Role       string `json:"role"`
	TenantSlug string `json:"tenant_slug"`
	jwt.RegisteredClaims
}

func GenerateToken(userID, role, tenant string) (string, error) {
	now := time.Now()
	claims := &CustomClaims{
		UserID:     userID,
		Role:       role,
		TenantSlug: tenant,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "comanda",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret)
	if err != nil {
		ErrorLogger.WithError(err).Error("sign token")
		return "", err
	}
	return signed, nil
}

func ParseToken(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || claims.UserID == "" {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
