package auth

import "golang.org/x/crypto/bcrypt"

// PasswordHasher hashes plaintext passwords and verifies candidates against
// stored hashes. The salt is embedded in the hash output.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns nil when password matches the stored hash.
	Compare(hashedPassword, password string) error
}

type BcryptHasher struct {
	cost int
}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *BcryptHasher) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
