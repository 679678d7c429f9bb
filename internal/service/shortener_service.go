package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quanturl/internal/repository"
	"quanturl/internal/shortener"

	"github.com/google/uuid"
)

// maxIssueAttempts bounds the collision retry loop.
const maxIssueAttempts = 5

// ErrUndecryptable reports a stored envelope the engine refused to decrypt —
// usually a mapping written by an engine with different salt rounds, or a
// store that did not preserve the envelope fields verbatim.
var ErrUndecryptable = errors.New("stored envelope could not be decrypted")

// ShortenerService layers a uniqueness registry around the stateless engine.
// The engine issues codes without deduplication; the service retries with a
// fresh code whenever the store reports a collision.
type ShortenerService struct {
	engine *shortener.Engine
	store  repository.Store
}

func NewShortenerService(engine *shortener.Engine, store repository.Store) *ShortenerService {
	return &ShortenerService{engine: engine, store: store}
}

// Shorten encrypts rawURL, issues a short code and persists the mapping.
// Validation failures from the engine pass through unchanged so callers can
// distinguish them with errors.Is.
func (s *ShortenerService) Shorten(ctx context.Context, rawURL string) (repository.Mapping, error) {
	for attempt := 0; attempt < maxIssueAttempts; attempt++ {
		su, err := s.engine.CreateShortURL(rawURL)
		if err != nil {
			return repository.Mapping{}, err
		}

		m := repository.Mapping{
			ID:        uuid.NewString(),
			Code:      su.Code,
			Envelope:  su.Envelope,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.store.Save(ctx, m); err != nil {
			if errors.Is(err, repository.ErrCodeExists) {
				continue
			}
			return repository.Mapping{}, fmt.Errorf("save mapping: %w", err)
		}
		return m, nil
	}
	return repository.Mapping{}, fmt.Errorf("issue short code after %d attempts: %w", maxIssueAttempts, repository.ErrCodeExists)
}

// Resolve loads the mapping for code and decrypts its envelope.
func (s *ShortenerService) Resolve(ctx context.Context, code string) (string, error) {
	m, err := s.store.Get(ctx, code)
	if err != nil {
		return "", fmt.Errorf("load mapping: %w", err)
	}
	url, ok := s.engine.DecryptURL(m.Envelope)
	if !ok {
		return "", fmt.Errorf("mapping %q: %w", code, ErrUndecryptable)
	}
	return url, nil
}
