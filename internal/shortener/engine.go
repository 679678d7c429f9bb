package shortener

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"
	"unicode/utf8"

	"quanturl/internal/crypto"
	"quanturl/util"
)

const (
	minCodeLength = 4
	maxCodeLength = 100
	maxURLLength  = 4096

	defaultSaltRounds = 10
	defaultCodeLength = 8
)

// Config carries the immutable settings of an Engine. Zero-valued fields
// are replaced by their defaults at construction time.
type Config struct {
	// SaltRounds is the PBKDF2 iteration count for the second encryption
	// layer. Default 10.
	SaltRounds int
	// CodeLength is the length of issued short codes, 4 to 100 inclusive.
	// Default 8.
	CodeLength int
	// QuantumSeed seeds the noise generator. Default: a fresh random value
	// per engine.
	QuantumSeed int64
	// ValidateURL is the syntactic URL predicate. Default util.IsValidURL.
	ValidateURL func(string) bool
	// Now supplies the noise time component in milliseconds. Default wall
	// clock; fix it in tests for deterministic noise.
	Now func() int64
}

// ShortURL binds an issued code to the envelope holding its encrypted URL.
// The code and the envelope are not cryptographically tied to each other;
// the association lives in whatever store the caller keeps.
type ShortURL struct {
	Code     string
	Envelope crypto.Envelope
}

// Engine is the stateless encryption core. It holds no mutable state across
// calls and is safe for concurrent use: every call allocates its own noise,
// keys and buffers.
type Engine struct {
	cfg      Config
	cipher   *crypto.Cipher
	validate func(string) bool
}

// New validates cfg and constructs an Engine. A code length outside
// [4, 100] is a construction-time failure, never a runtime one.
func New(cfg Config) (*Engine, error) {
	if cfg.SaltRounds <= 0 {
		cfg.SaltRounds = defaultSaltRounds
	}
	if cfg.CodeLength == 0 {
		cfg.CodeLength = defaultCodeLength
	}
	if cfg.CodeLength < minCodeLength {
		return nil, fmt.Errorf("%w: must be at least %d", ErrConfigOutOfRange, minCodeLength)
	}
	if cfg.CodeLength > maxCodeLength {
		return nil, fmt.Errorf("%w: cannot exceed %d", ErrConfigOutOfRange, maxCodeLength)
	}
	if cfg.QuantumSeed == 0 {
		cfg.QuantumSeed = randomSeed()
	}
	validate := cfg.ValidateURL
	if validate == nil {
		validate = util.IsValidURL
	}

	noise := crypto.NewNoise(cfg.QuantumSeed, cfg.Now)
	return &Engine{
		cfg:      cfg,
		cipher:   crypto.NewCipher(noise, cfg.SaltRounds),
		validate: validate,
	}, nil
}

// CreateShortURL validates rawURL, seals it into a fresh envelope and issues
// a short code of the configured length. Preconditions are checked in order:
// empty input, then format, then length. Codes are not checked against
// previously issued ones; callers wanting uniqueness keep their own registry
// and retry on collision.
func (e *Engine) CreateShortURL(rawURL string) (*ShortURL, error) {
	if rawURL == "" {
		return nil, ErrEmptyInput
	}
	if !e.validate(rawURL) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, rawURL)
	}
	if n := utf8.RuneCountInString(rawURL); n > maxURLLength {
		return nil, fmt.Errorf("%w: %d characters, limit %d", ErrTooLong, n, maxURLLength)
	}

	env, err := e.cipher.Encrypt(rawURL)
	if err != nil {
		return nil, fmt.Errorf("encrypt url: %w", err)
	}
	code, err := util.ShortCode(e.cfg.CodeLength)
	if err != nil {
		return nil, fmt.Errorf("generate short code: %w", err)
	}
	return &ShortURL{Code: code, Envelope: env}, nil
}

// DecryptURL recovers the URL sealed in env. The boolean is false whenever
// the envelope is incomplete, malformed or was produced under different key
// material; no failure mode escapes as an error or panic. Decryption is a
// pure read and may be repeated against the same envelope.
func (e *Engine) DecryptURL(env crypto.Envelope) (string, bool) {
	return e.cipher.Decrypt(env)
}

// CodeLength returns the configured short-code length.
func (e *Engine) CodeLength() int { return e.cfg.CodeLength }

func randomSeed() int64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.BigEndian.Uint64(b[:]) >> 1)
}
