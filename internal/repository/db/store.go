package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quanturl/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Store persists mappings in Postgres. The envelope travels as three text
// columns that are written and read back untouched.
type Store struct {
	db *sql.DB
}

var _ repository.Store = (*Store)(nil)

func New(dbx *sql.DB) *Store {
	return &Store{db: dbx}
}

func (s *Store) Save(ctx context.Context, m repository.Mapping) error {
	id := m.ID
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := m.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO short_urls (id, code, data, noise, iv, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, m.Code, m.Envelope.Data, m.Envelope.Noise, m.Envelope.IV, createdAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return repository.ErrCodeExists
		}
		return fmt.Errorf("insert mapping: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, code string) (repository.Mapping, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, code, data, noise, iv, created_at
		FROM short_urls
		WHERE code = $1`,
		code,
	)

	var m repository.Mapping
	if err := row.Scan(&m.ID, &m.Code, &m.Envelope.Data, &m.Envelope.Noise, &m.Envelope.IV, &m.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.Mapping{}, repository.ErrNotFound
		}
		return repository.Mapping{}, fmt.Errorf("select mapping: %w", err)
	}
	return m, nil
}

func (s *Store) Close() error { return s.db.Close() }
