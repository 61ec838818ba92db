// Package jwt oturum token'larını üretir ve doğrular. İmza HS256, secret
// JWT_SECRET ortam değişkeninden okunur.
package jwt

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Oturum süresi; PWA şantiyede günlerce açık kalabildiği için uzun
const sessionTTL = 7 * 24 * time.Hour

func secret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// GenerateToken login oturumu için token üretir. user_id ve email
// claim'leri auth middleware tarafından request locals'a taşınır.
func GenerateToken(email string, userID uint) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"iss":     "sitesnap",
		"iat":     now.Unix(),
		"exp":     now.Add(sessionTTL).Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// ValidateToken imzayı ve süreyi doğrulayıp claim'leri döner. Şifre
// sıfırlama token'ları da buradan geçer; claim içeriği çağırana kalmış.
func ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret(), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
