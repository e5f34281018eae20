package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"ladder-quiz/internal/domain"
	"ladder-quiz/internal/game"
	"ladder-quiz/internal/security"
)

// Storage backends for the leaderboard and profiles.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Question sources.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceXLSX     = "xlsx"
)

type Config struct {
	Server struct {
		Port         string `yaml:"port"`
		TickInterval string `yaml:"tick_interval"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Storage struct {
		Backend         string `yaml:"backend"`
		LeaderboardPath string `yaml:"leaderboard_path"`
		ProfilesPath    string `yaml:"profiles_path"`
		LeaderboardSize int    `yaml:"leaderboard_size"`
	} `yaml:"storage"`
	Questions struct {
		Source   string `yaml:"source"`
		Path     string `yaml:"path"`
		CacheTTL string `yaml:"cache_ttl"`
	} `yaml:"questions"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
		Prefix   string `yaml:"prefix"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Game struct {
		Seed   int64                `yaml:"seed"`
		Ladder []domain.LadderLevel `yaml:"ladder"`
	} `yaml:"game"`
	Token struct {
		Secret string `yaml:"secret"`
		TTL    string `yaml:"ttl"`
	} `yaml:"token"`
}

// Default is the configuration used when no file is present.
func Default() Config {
	var cfg Config
	cfg.Server.Port = "8080"
	cfg.Server.TickInterval = "250ms"
	cfg.Log.Level = "info"
	cfg.Storage.Backend = BackendFile
	cfg.Storage.LeaderboardPath = "data/leaderboard.txt"
	cfg.Storage.ProfilesPath = "data/profiles.txt"
	cfg.Storage.LeaderboardSize = 100
	cfg.Questions.Source = SourceFile
	cfg.Questions.Path = "data/questions.txt"
	cfg.Questions.CacheTTL = "10m"
	cfg.Redis.TTL = "10m"
	cfg.Redis.Prefix = "quiz:"
	cfg.Token.TTL = "24h"
	return cfg
}

// Load reads YAML config from path on top of the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	overrides := []struct {
		env string
		dst *string
	}{
		{"PORT", &cfg.Server.Port},
		{"LOG_LEVEL", &cfg.Log.Level},
		{"STORAGE_BACKEND", &cfg.Storage.Backend},
		{"REDIS_ADDR", &cfg.Redis.Addr},
		{"POSTGRES_URL", &cfg.Postgres.URL},
		{"TOKEN_SECRET", &cfg.Token.Secret},
		{"QUESTIONS_PATH", &cfg.Questions.Path},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.dst = v
		}
	}
}

// Validate rejects settings the game cannot run with.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendMemory:
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("storage backend %q needs redis.addr", c.Storage.Backend)
		}
	case BackendPostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("storage backend %q needs postgres.url", c.Storage.Backend)
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	switch c.Questions.Source {
	case SourceFile, SourceXLSX:
		if c.Questions.Path == "" {
			return fmt.Errorf("question source %q needs questions.path", c.Questions.Source)
		}
	case SourcePostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("question source %q needs postgres.url", c.Questions.Source)
		}
	default:
		return fmt.Errorf("unknown question source %q", c.Questions.Source)
	}

	if c.Storage.LeaderboardSize < 0 {
		return fmt.Errorf("storage.leaderboard_size must not be negative")
	}
	if len(c.Game.Ladder) > 0 {
		if err := domain.ValidateLadder(c.Game.Ladder); err != nil {
			return fmt.Errorf("game.ladder: %w", err)
		}
	}
	if c.Token.Secret != "" && len(c.Token.Secret) < security.MinSecretLength {
		return fmt.Errorf("token.secret must be at least %d characters", security.MinSecretLength)
	}
	return nil
}

// Ladder returns the configured ladder or the default table.
func (c Config) Ladder() []domain.LadderLevel {
	if len(c.Game.Ladder) == 0 {
		return game.DefaultLevels
	}
	return c.Game.Ladder
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
