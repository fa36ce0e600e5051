package codes

import (
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	uuidShape       = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	accessCodeShape = regexp.MustCompile(`^[1-9][0-9]{5}$`)
)

func TestInviteCode_CanonicalUUIDv4(t *testing.T) {
	g := New()
	seen := make(map[string]bool)
	for range 100 {
		code := g.InviteCode()
		assert.Regexp(t, uuidShape, code)
		assert.False(t, seen[code], "invite code repeated: %s", code)
		seen[code] = true

		parsed, err := uuid.Parse(code)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(4), parsed.Version())
	}
}

func TestAccessCode_SixDigitsNoLeadingZero(t *testing.T) {
	g := New()
	for range 1000 {
		code := g.AccessCode()
		assert.Regexp(t, accessCodeShape, code)
	}
}

func TestAccessCode_RangeBounds(t *testing.T) {
	g := New()

	g.accessRand = func(int) int { return 0 }
	assert.Equal(t, "100000", g.AccessCode())

	g.accessRand = func(int) int { return 899999 }
	assert.Equal(t, "999999", g.AccessCode())
}
