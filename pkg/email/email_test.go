package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayNameFromEmail(t *testing.T) {
	cases := []struct {
		email string
		want  string
	}{
		{"jane.smith@example.com", "Jane Smith"},
		{"jane@example.com", "Jane"},
		{"jane_smith+invites@example.com", "Jane Smith Invites"},
		{"JANE@example.com", "JANE"},
		{"...", "Guest"},
		{"", "Guest"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DisplayNameFromEmail(tc.email), tc.email)
	}
}
