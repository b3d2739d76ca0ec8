package hash

import "golang.org/x/crypto/bcrypt"

// ErrPasswordTooLong is returned for passwords over bcrypt's 72 byte limit.
var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// dummyHash is compared against when the user does not exist so that a miss
// costs the same as a wrong password.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type Hasher struct {
	Cost int
}

func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{Cost: cost}
}

func (h *Hasher) HashPassword(password string) (string, error) {
	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", err
	}

	return string(hashbytes), nil
}

func (h *Hasher) CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Burn spends one bcrypt comparison without checking anything.
func (h *Hasher) Burn(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
}
