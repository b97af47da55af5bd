package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// GenerateAdminToken creates a JWT for an authenticated admin user.
func GenerateAdminToken(adminID uint, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"admin_id": adminID,
		"exp":      time.Now().Add(12 * time.Hour).Unix(),
	})

	return token.SignedString(secret)
}

// ParseAdminToken validates a JWT and returns the admin id it carries.
func ParseAdminToken(tokenString string, secret []byte) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return 0, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid token claims")
	}

	idFloat, ok := claims["admin_id"].(float64) // JWT numeric values are float64
	if !ok {
		return 0, errors.New("invalid admin id in token")
	}

	return uint(idFloat), nil
}
