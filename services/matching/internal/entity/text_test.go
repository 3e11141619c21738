package entity

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc", Truncate("abcdef", 3))

	// "é" is two bytes; cutting after its first byte drops it whole.
	s := strings.Repeat("a", 999) + "é" + "tail"
	got := Truncate(s, 1000)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", 999), got)

	got = Truncate("日本語", 4)
	assert.Equal(t, "日", got)
	assert.Empty(t, Truncate("日本語", 2))
}
