package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
engine:
  salt_rounds: 12
  code_length: 6
  quantum_seed: 42
store:
  backend: postgres
database:
  dsn: postgres://localhost:5432/quanturl?sslmode=disable
  migrations_source: file://internal/repository/db/migration
oss:
  endpoint: localhost:9000
  bucket: quanturl
  request_timeout: 3s
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 12, cfg.Engine.SaltRounds)
	require.Equal(t, 6, cfg.Engine.CodeLength)
	require.Equal(t, int64(42), cfg.Engine.QuantumSeed)
	require.Equal(t, "postgres", cfg.Store.Backend)
	require.Equal(t, "postgres://localhost:5432/quanturl?sslmode=disable", cfg.Database.DSN)
	require.Equal(t, "quanturl", cfg.OSS.Bucket)
	require.Equal(t, 3*time.Second, cfg.OSS.RequestTimeout)
}

func TestLoadDefaultsBackend(t *testing.T) {
	path := writeConfig(t, `
engine:
  code_length: 8
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "memory", cfg.Store.Backend)
}

func TestLoadMissingPath(t *testing.T) {
	_, err := Load("")
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.Equal(t, "memory", cfg.Store.Backend)
	require.Zero(t, cfg.Engine.SaltRounds)
}
