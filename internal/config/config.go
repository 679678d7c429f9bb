package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Config struct {
	Engine   EngineConfig   `mapstructure:"engine"`
	Store    StoreConfig    `mapstructure:"store"`
	Database DatabaseConfig `mapstructure:"database"`
	OSS      OSSConfig      `mapstructure:"oss"`
}

type EngineConfig struct {
	SaltRounds  int   `mapstructure:"salt_rounds"`
	CodeLength  int   `mapstructure:"code_length"`
	QuantumSeed int64 `mapstructure:"quantum_seed"`
}

type StoreConfig struct {
	// Backend selects the mapping store: memory, postgres or oss.
	Backend string `mapstructure:"backend"`
}

type DatabaseConfig struct {
	DSN              string `mapstructure:"dsn"`
	MigrationsSource string `mapstructure:"migrations_source"`
}

type OSSConfig struct {
	Endpoint       string        `mapstructure:"endpoint"`
	AccessKey      string        `mapstructure:"access_key"`
	SecretKey      string        `mapstructure:"secret_key"`
	Bucket         string        `mapstructure:"bucket"`
	UseSSL         bool          `mapstructure:"use_ssl"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// Default returns the configuration used when no file is supplied: the
// in-memory store with engine defaults.
func Default() *Config {
	return &Config{Store: StoreConfig{Backend: "memory"}}
}

func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is required")
	}

	v := viper.New()
	v.SetDefault("store.backend", "memory")
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.StringToTimeDurationHookFunc())); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}
