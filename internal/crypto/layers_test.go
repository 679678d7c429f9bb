package crypto

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestCipher(seed int64, saltRounds int) *Cipher {
	var tick int64
	now := func() int64 { tick++; return 1700000000000 + tick }
	return NewCipher(NewNoise(seed, now), saltRounds)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	urls := []string{
		"https://example.com",
		"https://example.com/",
		"http://example.com/path?q=1&r=two#frag",
		"https://example.com/?q=",
		"https://例え.テスト/パス?質問=答え#断片",
		"https://example.com/" + strings.Repeat("a", 4000),
	}

	c := newTestCipher(42, 10)
	for _, u := range urls {
		env, err := c.Encrypt(u)
		require.NoError(t, err)

		got, ok := c.Decrypt(env)
		require.True(t, ok, "decrypt %q", u)
		require.Equal(t, u, got)
	}
}

func TestEnvelopeShape(t *testing.T) {
	c := newTestCipher(42, 10)
	env, err := c.Encrypt("https://example.com")
	require.NoError(t, err)

	// Three equal hex-encoded 32-byte blocks.
	require.Len(t, env.Noise, 192)
	require.Zero(t, len(env.Noise)%3)

	iv, ok := env.iv()
	require.True(t, ok)
	require.Len(t, iv, 16)

	_, err = base64.RawURLEncoding.DecodeString(env.Data)
	require.NoError(t, err)
}

func TestEncryptIsNonDeterministic(t *testing.T) {
	c := newTestCipher(42, 10)

	a, err := c.Encrypt("https://example.com")
	require.NoError(t, err)
	b, err := c.Encrypt("https://example.com")
	require.NoError(t, err)

	require.NotEqual(t, a.Data, b.Data)
	require.NotEqual(t, a.Noise, b.Noise)
	require.NotEqual(t, a.IV, b.IV)
}

func TestDecryptMalformedEnvelope(t *testing.T) {
	c := newTestCipher(42, 10)
	env, err := c.Encrypt("https://example.com")
	require.NoError(t, err)

	foreign := base64.RawURLEncoding.EncodeToString([]byte("junk that never came out of Encrypt"))

	cases := map[string]Envelope{
		"empty":          {},
		"missing data":   {Noise: env.Noise, IV: env.IV},
		"missing noise":  {Data: env.Data, IV: env.IV},
		"missing iv":     {Data: env.Data, Noise: env.Noise},
		"bad base64":     {Data: "!!!not-base64!!!", Noise: env.Noise, IV: env.IV},
		"foreign data":   {Data: foreign, Noise: env.Noise, IV: env.IV},
		"bad noise hex":  {Data: env.Data, Noise: strings.Repeat("z", 192), IV: env.IV},
		"short noise":    {Data: env.Data, Noise: "abc", IV: env.IV},
		"uneven noise":   {Data: env.Data, Noise: env.Noise[:190], IV: env.IV},
		"bad iv hex":     {Data: env.Data, Noise: env.Noise, IV: "nothexatall!!"},
		"short iv":       {Data: env.Data, Noise: env.Noise, IV: "abcd"},
		"swapped blocks": {Data: env.Data, Noise: env.Noise[64:128] + env.Noise[:64] + env.Noise[128:], IV: env.IV},
	}

	for name, bad := range cases {
		got, ok := c.Decrypt(bad)
		require.False(t, ok, name)
		require.Empty(t, got, name)
	}
}

func TestDecryptDifferentSaltRounds(t *testing.T) {
	enc := newTestCipher(42, 10)
	env, err := enc.Encrypt("https://example.com")
	require.NoError(t, err)

	dec := newTestCipher(42, 11)
	_, ok := dec.Decrypt(env)
	require.False(t, ok)
}

func TestDecryptIsRepeatable(t *testing.T) {
	c := newTestCipher(42, 10)
	env, err := c.Encrypt("https://example.com")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		got, ok := c.Decrypt(env)
		require.True(t, ok)
		require.Equal(t, "https://example.com", got)
	}
}

func TestDeriveLayer2KeyMatchesAcrossPaths(t *testing.T) {
	iv := []byte("0123456789abcdef")
	a := deriveLayer2Key("aa", iv, 10)
	b := deriveLayer2Key("aa", iv, 10)
	require.Equal(t, a, b)
	require.Len(t, a, 32)

	require.NotEqual(t, a, deriveLayer2Key("aa", iv, 11))
	require.NotEqual(t, a, deriveLayer2Key("ab", iv, 10))
}

func TestDeriveLayer3KeyDependsOnBothInputs(t *testing.T) {
	k2 := make([]byte, 32)
	a := deriveLayer3Key("aa", k2)
	require.Len(t, a, 32)

	require.NotEqual(t, a, deriveLayer3Key("ab", k2))

	other := make([]byte, 32)
	other[0] = 1
	require.NotEqual(t, a, deriveLayer3Key("aa", other))
}

func BenchmarkEncrypt(b *testing.B) {
	c := NewCipher(NewNoise(42, nil), 10)
	for i := 0; i < b.N; i++ {
		if _, err := c.Encrypt("https://example.com/some/long/path?with=query"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecrypt(b *testing.B) {
	c := NewCipher(NewNoise(42, nil), 10)
	env, err := c.Encrypt("https://example.com/some/long/path?with=query")
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, ok := c.Decrypt(env); !ok {
			b.Fatal("decrypt failed")
		}
	}
}
