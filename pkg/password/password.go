package password

import (
	"errors"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

// ErrWeakPassword is returned when a password fails the minimum policy.
var ErrWeakPassword = errors.New("password must be at least 8 characters and contain a letter and a digit")

var (
	hasLetter = regexp.MustCompile(`[A-Za-z]`)
	hasDigit  = regexp.MustCompile(`\d`)
)

type Hasher struct {
	cost int
}

func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash produces a salted bcrypt hash. Two calls with the same password
// yield different hashes.
func (h *Hasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h *Hasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NeedsRehash reports whether a stored hash was produced with a cost below
// the current policy. Unparseable hashes also need a rehash.
func (h *Hasher) NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return true
	}
	return cost < h.cost
}

// ValidatePolicy enforces the minimum password policy independent of
// hashing: at least 8 characters with at least one letter and one digit.
func ValidatePolicy(password string) error {
	if len(password) < 8 || !hasLetter.MatchString(password) || !hasDigit.MatchString(password) {
		return ErrWeakPassword
	}
	return nil
}
