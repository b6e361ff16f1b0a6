package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func Issue(secret string, adminID int64, role string, ttlHours int) (string, error) {
	claims := jwt.MapClaims{
		"sub":  adminID,
		"role": role,
		"exp":  time.Now().Add(time.Duration(ttlHours) * time.Hour).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}
