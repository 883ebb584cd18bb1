package session

import (
	"errors"
	"fmt"
	"time"

	"learning-app/internal/domain/users"

	"github.com/golang-jwt/jwt/v5"
)

const CookieName = "session"

var ErrInvalidToken = errors.New("invalid or expired session token")

// Issue signs a session token for user valid for ttl.
func Issue(secret []byte, user users.User, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", fmt.Errorf("session secret not configured")
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(ttl).Unix(),
	})
	return t.SignedString(secret)
}

// Parse validates tokenString and returns the user id it was issued for.
func Parse(secret []byte, tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok || userIDFloat <= 0 {
		return 0, ErrInvalidToken
	}
	return uint(userIDFloat), nil
}
