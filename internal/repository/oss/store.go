package oss

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"time"

	"quanturl/internal/crypto"
	"quanturl/internal/repository"

	"github.com/minio/minio-go/v7"
)

const noSuchKey = "NoSuchKey"

// Store keeps one JSON object per short code in a MinIO bucket. The envelope
// strings are embedded as-is in the object body.
type Store struct {
	client *minio.Client
	bucket string
}

var _ repository.Store = (*Store)(nil)

func New(client *minio.Client, bucket string) *Store {
	return &Store{client: client, bucket: bucket}
}

type object struct {
	ID        string          `json:"id"`
	Code      string          `json:"code"`
	Envelope  crypto.Envelope `json:"envelope"`
	CreatedAt time.Time       `json:"created_at"`
}

func (s *Store) Save(ctx context.Context, m repository.Mapping) error {
	key := objectKey(m.Code)

	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err == nil {
		return repository.ErrCodeExists
	} else if minio.ToErrorResponse(err).Code != noSuchKey {
		return fmt.Errorf("stat object %q: %w", key, err)
	}

	payload, err := json.Marshal(object{
		ID:        m.ID,
		Code:      m.Code,
		Envelope:  m.Envelope,
		CreatedAt: m.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal mapping: %w", err)
	}

	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("put object %q: %w", key, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, code string) (repository.Mapping, error) {
	key := objectKey(code)

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return repository.Mapping{}, fmt.Errorf("get object %q: %w", key, err)
	}
	defer obj.Close()

	raw, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == noSuchKey {
			return repository.Mapping{}, repository.ErrNotFound
		}
		return repository.Mapping{}, fmt.Errorf("read object %q: %w", key, err)
	}

	var o object
	if err := json.Unmarshal(raw, &o); err != nil {
		return repository.Mapping{}, fmt.Errorf("unmarshal mapping %q: %w", key, err)
	}
	return repository.Mapping{
		ID:        o.ID,
		Code:      o.Code,
		Envelope:  o.Envelope,
		CreatedAt: o.CreatedAt,
	}, nil
}

func (s *Store) Close() error { return nil }

func objectKey(code string) string {
	return path.Join("mappings", code+".json")
}
