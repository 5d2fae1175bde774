package utils

import "golang.org/x/crypto/bcrypt"

// PasswordCost is the bcrypt work factor. The digest embeds it together with
// the salt, so verification only needs the digest.
const PasswordCost = 10

// MaxPasswordBytes is the longest input bcrypt accepts, counted in bytes.
const MaxPasswordBytes = 72

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPasswordHash returns nil when password matches hash.
func CheckPasswordHash(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
