package auth

import (
	"log"

	"golang.org/x/crypto/bcrypt"
)

// HashAdminKey generates a bcrypt hash for the given admin key, suitable
// for the ADMIN_KEY_HASH environment variable.
func HashAdminKey(key string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error generating bcrypt hash: %v", err)
		return "", err
	}
	return string(bytes), nil
}

// CheckAdminKey compares a presented admin key with the stored bcrypt hash.
func CheckAdminKey(key, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key))
	if err != nil {
		if err != bcrypt.ErrMismatchedHashAndPassword {
			// Log unexpected errors, but still return false for security
			log.Printf("Error comparing admin key hash: %v", err)
		}
		return false
	}
	return true
}
