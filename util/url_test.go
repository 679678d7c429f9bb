package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidURL(t *testing.T) {
	valid := []string{
		"https://example.com",
		"http://example.com",
		"https://example.com/",
		"https://example.com/path?q=1#frag",
		"https://例え.テスト/パス",
	}
	for _, u := range valid {
		assert.True(t, IsValidURL(u), u)
	}

	invalid := []string{
		"",
		"not-a-valid-url",
		"example.com",
		"ftp://example.com",
		"https://",
		"://missing-scheme",
	}
	for _, u := range invalid {
		assert.False(t, IsValidURL(u), u)
	}
}
