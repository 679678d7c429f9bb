package env

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"quanturl/internal/config"
	"quanturl/internal/repository"
	"quanturl/internal/repository/db"
	"quanturl/internal/repository/memory"
	"quanturl/internal/repository/oss"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	_ "github.com/lib/pq"
)

// NewStore builds the mapping store named by cfg.Store.Backend.
func NewStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.Store.Backend {
	case "", "memory":
		return memory.New(), nil
	case "postgres":
		dbConn, err := InitDB(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		return db.New(dbConn), nil
	case "oss":
		client, err := InitOSS(ctx, cfg.OSS)
		if err != nil {
			return nil, err
		}
		return oss.New(client, cfg.OSS.Bucket), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// InitDB opens the database connection, runs migrations and pings it to
// ensure readiness.
func InitDB(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	dbConn, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Migration(cfg.MigrationsSource, dbConn); err != nil {
		dbConn.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	if err := dbConn.PingContext(ctx); err != nil {
		dbConn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return dbConn, nil
}

// InitOSS builds the MinIO client and ensures the bucket exists.
func InitOSS(ctx context.Context, cfg config.OSSConfig) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	bucketCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	exists, err := client.BucketExists(bucketCtx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(bucketCtx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", cfg.Bucket, err)
		}
	}

	return client, nil
}
