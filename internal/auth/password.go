package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	algoBcrypt = "bcrypt"
	algoPBKDF2 = "pbkdf2"

	// MaxPasswordBytes is the longest password bcrypt accepts.
	MaxPasswordBytes = 72
)

// ErrPasswordTooLong is returned by Hash for passwords over MaxPasswordBytes.
var ErrPasswordTooLong = errors.New("password longer than 72 bytes")

// PasswordHasher abstracts the hash algorithm so stored hashes can be upgraded.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
	NeedsRehash(hash string) bool
}

// DelegatingHasher writes bcrypt hashes tagged "{bcrypt}" and still verifies
// older "{pbkdf2}" hashes. Untagged hashes are read as bcrypt.
type DelegatingHasher struct {
	cost int
}

// NewPasswordHasher returns the current hashing strategy.
func NewPasswordHasher(bcryptCost int) *DelegatingHasher {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &DelegatingHasher{cost: bcryptCost}
}

// Hash hashes a plaintext password with the current algorithm.
func (h *DelegatingHasher) Hash(plain string) (string, error) {
	if len(plain) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return "{" + algoBcrypt + "}" + string(hashed), nil
}

// Verify checks plain against any supported stored hash.
func (h *DelegatingHasher) Verify(hash, plain string) bool {
	algo, encoded := splitAlgo(hash)
	switch algo {
	case algoBcrypt:
		return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plain)) == nil
	case algoPBKDF2:
		return verifyPBKDF2(encoded, plain)
	default:
		return false
	}
}

// NeedsRehash reports hashes written by an older algorithm or a lower bcrypt cost.
func (h *DelegatingHasher) NeedsRehash(hash string) bool {
	algo, encoded := splitAlgo(hash)
	if algo != algoBcrypt {
		return true
	}
	cost, err := bcrypt.Cost([]byte(encoded))
	if err != nil {
		return true
	}
	return cost < h.cost
}

func splitAlgo(hash string) (string, string) {
	if !strings.HasPrefix(hash, "{") {
		return algoBcrypt, hash
	}
	end := strings.IndexByte(hash, '}')
	if end < 0 {
		return "", hash
	}
	return hash[1:end], hash[end+1:]
}

// pbkdf2 hashes are "<iterations>$<salt>$<key>" with raw base64 parts, SHA-256 PRF.
func verifyPBKDF2(encoded, plain string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 3 {
		return false
	}
	iterations, err := strconv.Atoi(parts[0])
	if err != nil || iterations <= 0 {
		return false
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil {
		return false
	}
	got := pbkdf2.Key([]byte(plain), salt, iterations, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}
