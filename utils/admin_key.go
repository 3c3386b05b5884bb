package utils

import (
	"crypto/rand"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// GenerateAdminKey returns a random URL-safe key for the admin endpoints.
func GenerateAdminKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func HashAdminKey(key string) (string, error) {
	if key == "" {
		return "", errors.New("empty admin key")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	return string(hash), err
}

func VerifyAdminKey(hashed, key string) bool {
	if hashed == "" || key == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(key)) == nil
}
