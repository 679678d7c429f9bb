package shortener

import "errors"

// Construction and validation failures surfaced by the engine. Decryption
// failures are deliberately not errors; DecryptURL reports them through its
// boolean result so a corrupted or foreign envelope can never fault.
var (
	// ErrConfigOutOfRange rejects a code length outside [4, 100] at
	// construction time.
	ErrConfigOutOfRange = errors.New("code length out of range")
	// ErrEmptyInput rejects an empty URL.
	ErrEmptyInput = errors.New("url is empty")
	// ErrInvalidFormat rejects a URL the syntactic validator refuses.
	ErrInvalidFormat = errors.New("url is not well-formed")
	// ErrTooLong rejects a URL over 4096 characters.
	ErrTooLong = errors.New("url is too long")
)
