package util

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// codeAlphabet is the URL-safe alphabet short codes are drawn from.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// ShortCode returns n characters drawn uniformly from the URL-safe alphabet
// using crypto/rand. Uniqueness against previously issued codes is the
// caller's concern.
func ShortCode(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("short code length must be positive, got %d", n)
	}
	limit := big.NewInt(int64(len(codeAlphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("read random index: %w", err)
		}
		out[i] = codeAlphabet[idx.Int64()]
	}
	return string(out), nil
}
