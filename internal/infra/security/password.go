package security

import "golang.org/x/crypto/bcrypt"

// BcryptHasher hashes passwords with a cost factor of 12 unless configured
// otherwise. Comparison is delegated to bcrypt's constant-time check.
type BcryptHasher struct {
	Cost int
}

const defaultCost = 12

func (h BcryptHasher) Hash(password string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(password), h.cost())
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (h BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (h BcryptHasher) cost() int {
	if h.Cost >= bcrypt.MinCost {
		return h.Cost
	}
	return defaultCost
}
