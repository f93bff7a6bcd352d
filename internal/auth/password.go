package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// CredentialTable maps login emails to bcrypt hashes.
type CredentialTable struct {
	hashes map[string]string
}

// DemoCredentials are the only accounts that can sign in.
var DemoCredentials = map[string]string{
	"user@office.com":  "user123",
	"admin@office.com": "admin123",
}

// NewCredentialTable hashes every plaintext password in creds.
func NewCredentialTable(creds map[string]string, cost int) (*CredentialTable, error) {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	hashes := make(map[string]string, len(creds))
	for email, password := range creds {
		hash, err := HashPassword(password, cost)
		if err != nil {
			return nil, err
		}
		hashes[normalizeEmail(email)] = hash
	}
	return &CredentialTable{hashes: hashes}, nil
}

// Verify reports whether password matches the stored hash for email.
func (t *CredentialTable) Verify(email, password string) bool {
	if t == nil {
		return false
	}
	hash, ok := t.hashes[normalizeEmail(email)]
	if !ok {
		return false
	}
	return ComparePassword(hash, password) == nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
