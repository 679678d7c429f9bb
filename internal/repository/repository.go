package repository

import (
	"context"
	"errors"
	"time"

	"quanturl/internal/crypto"
)

// Mapping is one stored short-code binding. The three envelope strings must
// be persisted verbatim and byte-exactly; an adapter that trims, case-folds
// or re-encodes them produces mappings that can never be decrypted again.
type Mapping struct {
	ID        string
	Code      string
	Envelope  crypto.Envelope
	CreatedAt time.Time
}

var (
	// ErrCodeExists signals a short-code collision within the store's
	// lifetime; callers retry with a fresh code.
	ErrCodeExists = errors.New("short code already exists")
	// ErrNotFound signals an unknown short code.
	ErrNotFound = errors.New("short code not found")
)

// Store persists mappings. Implementations enforce code uniqueness only
// within their own lifetime; the encryption core itself never deduplicates.
type Store interface {
	Save(ctx context.Context, m Mapping) error
	Get(ctx context.Context, code string) (Mapping, error)
	Close() error
}
