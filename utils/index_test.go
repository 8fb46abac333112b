package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short", "Match night", 20, "Match night"},
		{"ascii", "abcdef", 3, "abc"},
		{"multibyte boundary", "aaé", 3, "aaé"},
		{"multibyte cut", "aéé", 2, "aé"},
		{"invalid bytes", "ok\xffok", 10, "ok�ok"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Truncate(tc.in, tc.max)
			assert.Equal(t, tc.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}

	long := strings.Repeat("a", 199) + "é"
	assert.Equal(t, long, Truncate(long, 200))
}
