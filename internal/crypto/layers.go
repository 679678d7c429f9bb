package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/pbkdf2"
)

// keySize is the AES-256 key length used by every layer.
const keySize = 32

// Cipher chains three symmetric encryption passes over a plaintext URL.
//
// Layer 1 is AES-256-CBC keyed directly by the first noise block, with the
// explicit IV carried in the envelope. Layers 2 and 3 are AES-256-GCM keyed
// by derived material; each carries its own nonce at the front of the layer
// output, so only the key is needed to reverse it.
type Cipher struct {
	noise      *Noise
	saltRounds int
}

// NewCipher builds a layered cipher drawing key material from noise.
// saltRounds is the PBKDF2 iteration count for the layer-2 key.
func NewCipher(noise *Noise, saltRounds int) *Cipher {
	return &Cipher{noise: noise, saltRounds: saltRounds}
}

// Encrypt seals plaintext into a fresh envelope. Every call draws new noise
// blocks and a new IV, so encrypting the same input twice never yields the
// same envelope.
func (c *Cipher) Encrypt(plaintext string) (Envelope, error) {
	n1 := c.noise.Generate()
	n2 := c.noise.Generate()
	n3 := c.noise.Generate()

	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		return Envelope{}, fmt.Errorf("generate iv: %w", err)
	}

	k1, err := hex.DecodeString(n1)
	if err != nil {
		return Envelope{}, fmt.Errorf("decode layer-1 key material: %w", err)
	}

	c1, err := encryptCBC([]byte(plaintext), k1, iv)
	if err != nil {
		return Envelope{}, fmt.Errorf("layer 1: %w", err)
	}

	k2 := deriveLayer2Key(n2, iv, c.saltRounds)
	c2, err := encryptGCM(c1, k2)
	if err != nil {
		return Envelope{}, fmt.Errorf("layer 2: %w", err)
	}

	k3 := deriveLayer3Key(n3, k2)
	c3, err := encryptGCM(c2, k3)
	if err != nil {
		return Envelope{}, fmt.Errorf("layer 3: %w", err)
	}

	return Envelope{
		Data:  base64.RawURLEncoding.EncodeToString(c3),
		Noise: n1 + n2 + n3,
		IV:    hex.EncodeToString(iv),
	}, nil
}

// Decrypt reverses Encrypt. It is total over arbitrary envelopes: a missing
// field, malformed encoding, foreign key material or corrupted ciphertext
// all collapse to ok == false. It never panics and never returns partially
// decrypted text.
func (c *Cipher) Decrypt(env Envelope) (string, bool) {
	if !env.complete() {
		return "", false
	}
	n1, n2, n3, ok := env.splitNoise()
	if !ok {
		return "", false
	}
	iv, ok := env.iv()
	if !ok {
		return "", false
	}
	c3, err := base64.RawURLEncoding.DecodeString(env.Data)
	if err != nil {
		return "", false
	}
	k1, err := hex.DecodeString(n1)
	if err != nil || len(k1) != keySize {
		return "", false
	}

	k2 := deriveLayer2Key(n2, iv, c.saltRounds)
	k3 := deriveLayer3Key(n3, k2)

	c2, err := decryptGCM(c3, k3)
	if err != nil {
		return "", false
	}
	c1, err := decryptGCM(c2, k2)
	if err != nil {
		return "", false
	}
	plain, err := decryptCBC(c1, k1, iv)
	if err != nil {
		return "", false
	}
	if len(plain) == 0 || !utf8.Valid(plain) {
		return "", false
	}
	return string(plain), true
}

// deriveLayer2Key stretches the second noise block with PBKDF2-SHA256,
// salted by the layer-1 IV. The hex text of the block is the password, so
// encrypt and decrypt derive from the exact bytes stored in the envelope.
func deriveLayer2Key(noiseHex string, iv []byte, rounds int) []byte {
	return pbkdf2.Key([]byte(noiseHex), iv, rounds, keySize, sha256.New)
}

// deriveLayer3Key digests the third noise block together with the textual
// form of the layer-2 key.
func deriveLayer3Key(noiseHex string, k2 []byte) []byte {
	sum := sha256.Sum256([]byte(noiseHex + hex.EncodeToString(k2)))
	return sum[:]
}

func encryptCBC(plain, key, iv []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	padded := pkcs7Pad(plain, aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
	return out, nil
}

func decryptCBC(ct, key, iv []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return nil, errors.New("ciphertext is not block aligned")
	}
	out := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ct)
	return pkcs7Unpad(out, aes.BlockSize)
}

func encryptGCM(plain, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func decryptGCM(ct, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(ct) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce, sealed := ct[:gcm.NonceSize()], ct[gcm.NonceSize():]
	return gcm.Open(nil, nonce, sealed, nil)
}

func pkcs7Pad(b []byte, size int) []byte {
	n := size - len(b)%size
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte, size int) ([]byte, error) {
	if len(b) == 0 || len(b)%size != 0 {
		return nil, errors.New("invalid padded length")
	}
	n := int(b[len(b)-1])
	if n == 0 || n > size {
		return nil, errors.New("invalid padding")
	}
	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return nil, errors.New("invalid padding")
		}
	}
	return b[:len(b)-n], nil
}
