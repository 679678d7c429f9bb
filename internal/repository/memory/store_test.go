package memory

import (
	"context"
	"testing"

	"quanturl/internal/crypto"
	"quanturl/internal/repository"

	"github.com/stretchr/testify/require"
)

func TestStoreSaveGet(t *testing.T) {
	s := New()
	ctx := context.Background()

	m := repository.Mapping{
		ID:   "id-1",
		Code: "abc123",
		Envelope: crypto.Envelope{
			Data:  "ZGF0YQ",
			Noise: "6e6f697365",
			IV:    "6976",
		},
	}
	require.NoError(t, s.Save(ctx, m))
	require.Equal(t, 1, s.Len())

	got, err := s.Get(ctx, "abc123")
	require.NoError(t, err)
	// Envelope fields come back byte-exact.
	require.Equal(t, m.Envelope, got.Envelope)
}

func TestStoreDuplicateCode(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, repository.Mapping{Code: "dup"}))
	err := s.Save(ctx, repository.Mapping{Code: "dup"})
	require.ErrorIs(t, err, repository.ErrCodeExists)
}

func TestStoreGetUnknownCode(t *testing.T) {
	s := New()
	_, err := s.Get(context.Background(), "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}
