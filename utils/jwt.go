package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/cppla/codeshare/config"
)

// RoleAdmin is the only privileged role.
const RoleAdmin = "admin"

// Claims defines JWT claims used for the admin session.
type Claims struct {
	Role     string `json:"role"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed token for the given role.
func GenerateToken(role, username string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:     role,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return sign(claims)
}

// ParseToken validates a JWT and returns its claims.
func ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	if err := parse(tokenStr, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// GenerateVisitorToken signs an opaque visitor id for the visitor cookie. It never expires.
func GenerateVisitorToken(visitorID string) (string, error) {
	return sign(jwt.RegisteredClaims{
		Subject:  visitorID,
		IssuedAt: jwt.NewNumericDate(time.Now()),
	})
}

// ParseVisitorToken returns the visitor id carried by a cookie value.
func ParseVisitorToken(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	if err := parse(tokenStr, claims); err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", errors.New("visitor token without subject")
	}
	return claims.Subject, nil
}

func sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Get().JWTSecret))
}

func parse(tokenStr string, claims jwt.Claims) error {
	secret := []byte(config.Get().JWTSecret)
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return err
	}
	if !parsed.Valid {
		return errors.New("invalid token claims")
	}
	return nil
}
