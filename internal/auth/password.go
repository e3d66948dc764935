package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type Scheme string

const (
	// SchemeSHA256 is an unsalted SHA-256 hex digest. It is weak against offline
	// guessing and only kept so existing account rows keep verifying.
	SchemeSHA256 Scheme = "sha256"
	SchemeBcrypt Scheme = "bcrypt"
)

func ParseScheme(s string) (Scheme, error) {
	switch Scheme(strings.ToLower(s)) {
	case SchemeSHA256:
		return SchemeSHA256, nil
	case SchemeBcrypt:
		return SchemeBcrypt, nil
	}
	return "", fmt.Errorf("unknown password scheme %q", s)
}

// Passwords hashes with one scheme and verifies either, detected from the stored value.
type Passwords struct {
	Scheme Scheme
	Cost   int // bcrypt only; 0 means bcrypt.DefaultCost
}

func (p Passwords) Hash(password string) (string, error) {
	if p.Scheme == SchemeBcrypt {
		cost := p.Cost
		if cost == 0 {
			cost = bcrypt.DefaultCost
		}
		b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
		if err != nil {
			return "", fmt.Errorf("bcrypt: %w", err)
		}
		return string(b), nil
	}
	return legacyDigest(password), nil
}

func (p Passwords) Verify(stored, password string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	want := legacyDigest(password)
	return subtle.ConstantTimeCompare([]byte(stored), []byte(want)) == 1
}

func legacyDigest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
