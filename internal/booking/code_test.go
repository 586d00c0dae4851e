package booking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBookingCodeShape(t *testing.T) {
	code := NewBookingCode()

	assert.True(t, strings.HasPrefix(code, "BK"), "code %q must start with BK", code)
	assert.Equal(t, strings.ToUpper(code), code, "code %q must be upper-case", code)
	for _, c := range code[2:] {
		assert.Contains(t, codeAlphabet, string(c), "unexpected character in %q", code)
	}
	// "BK" + base36 millis (8+ chars for current dates) + 3 random chars
	assert.GreaterOrEqual(t, len(code), 13)
}

func TestNewBookingCodeDistinct(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		code := NewBookingCode()
		_, dup := seen[code]
		assert.False(t, dup, "duplicate code %q", code)
		seen[code] = struct{}{}
	}
}
