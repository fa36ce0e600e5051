// Package codes generates invite credentials: a long-form invite code and a
// short numeric access code.
package codes

import (
	"math/rand/v2"

	"github.com/google/uuid"
)

// Generator produces credential pairs. The zero value is not usable; use
// New.
type Generator struct {
	newUUID    func() uuid.UUID
	accessRand func(n int) int
}

// New returns a production generator: UUIDv4 invite codes from a
// cryptographic source and access codes from math/rand (the access code is
// a convenience fallback, not a security boundary).
func New() *Generator {
	return &Generator{
		newUUID:    uuid.New,
		accessRand: rand.IntN,
	}
}

// InviteCode returns a canonical lowercase hyphenated UUIDv4 string.
func (g *Generator) InviteCode() string {
	return g.newUUID().String()
}

// AccessCode returns a uniform 6-digit decimal string in [100000, 999999].
// The range excludes leading zeros so the code is always six typed digits.
func (g *Generator) AccessCode() string {
	n := 100000 + g.accessRand(900000)
	return formatAccessCode(n)
}

func formatAccessCode(n int) string {
	buf := make([]byte, 6)
	for i := 5; i >= 0; i-- {
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf)
}
