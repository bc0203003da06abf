// Package utils holds the id and password helpers the services share.
package utils

import (
	"strings"

	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/bcrypt"
)

// GenerateID returns prefix, a dash and a lowercase ULID. Ids issued by one
// process sort by creation time.
func GenerateID(prefix string) string {
	return prefix + "-" + strings.ToLower(ulid.Make().String())
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
