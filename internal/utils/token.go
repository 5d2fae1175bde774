package utils

import "github.com/google/uuid"

// GenerateVerificationToken returns a random (v4) UUID string used to
// confirm a user's email address.
func GenerateVerificationToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
