// Package config loads server settings from defaults, an optional TOML file
// and the environment, in that order of precedence (environment wins).
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/samber/lo"

	constants "github.com/CodeAndHammer/typeproof/internal/constants"
	util "github.com/CodeAndHammer/typeproof/internal/util"
)

const DefaultConfigFile = "typeproof.toml"

type Config struct {
	Port         string
	IsProduction bool

	SessionTTL             time.Duration
	SessionCleanupInterval time.Duration
	SessionCapacity        int

	RateLimitRPS   int
	RateLimitBurst int
	RateLimiterTTL time.Duration

	LeaderboardBackend  string
	LeaderboardPath     string
	DatabaseURL         string
	LeaderboardCacheAge time.Duration

	MaxBodyBytes int64
}

// FileConfig mirrors the TOML file. Pointer fields distinguish "unset" from
// zero values.
type FileConfig struct {
	Server      ServerSection      `toml:"server"`
	Session     SessionSection     `toml:"session"`
	RateLimit   RateLimitSection   `toml:"rate_limit"`
	Leaderboard LeaderboardSection `toml:"leaderboard"`
}

type ServerSection struct {
	Port         *string `toml:"port"`
	Production   *bool   `toml:"production"`
	MaxBodyBytes *int64  `toml:"max_body_bytes"`
}

type SessionSection struct {
	TTL             *string `toml:"ttl"`
	CleanupInterval *string `toml:"cleanup_interval"`
	Capacity        *int    `toml:"capacity"`
}

type RateLimitSection struct {
	RPS   *int    `toml:"rps"`
	Burst *int    `toml:"burst"`
	TTL   *string `toml:"ttl"`
}

type LeaderboardSection struct {
	Backend     *string `toml:"backend"`
	Path        *string `toml:"path"`
	DatabaseURL *string `toml:"database_url"`
	CacheAge    *string `toml:"cache_age"`
}

func Defaults() Config {
	return Config{
		Port:                   "8080",
		SessionTTL:             3 * time.Hour,
		SessionCleanupInterval: 10 * time.Minute,
		SessionCapacity:        100000,
		RateLimitRPS:           5,
		RateLimitBurst:         10,
		RateLimiterTTL:         time.Hour,
		LeaderboardBackend:     constants.BackendFile,
		LeaderboardCacheAge:    5 * time.Second,
		MaxBodyBytes:           1 << 20,
	}
}

// Load reads .env, then the TOML file named by CONFIG_FILE (or
// typeproof.toml), then environment variables.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()

	path := util.GetEnvString("CONFIG_FILE", DefaultConfigFile)
	fileCfg, err := LoadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.applyFile(fileCfg); err != nil {
		return Config{}, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads a TOML config. A missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var fc FileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	util.LogInfo("Loaded config file %s", path)
	return fc, nil
}

func (c *Config) applyFile(fc FileConfig) error {
	setString(&c.Port, fc.Server.Port)
	setValue(&c.IsProduction, fc.Server.Production)
	setValue(&c.MaxBodyBytes, fc.Server.MaxBodyBytes)

	setValue(&c.SessionCapacity, fc.Session.Capacity)
	setValue(&c.RateLimitRPS, fc.RateLimit.RPS)
	setValue(&c.RateLimitBurst, fc.RateLimit.Burst)

	setString(&c.LeaderboardBackend, fc.Leaderboard.Backend)
	setString(&c.LeaderboardPath, fc.Leaderboard.Path)
	setString(&c.DatabaseURL, fc.Leaderboard.DatabaseURL)

	durations := []struct {
		dst *time.Duration
		src *string
		key string
	}{
		{&c.SessionTTL, fc.Session.TTL, "session.ttl"},
		{&c.SessionCleanupInterval, fc.Session.CleanupInterval, "session.cleanup_interval"},
		{&c.RateLimiterTTL, fc.RateLimit.TTL, "rate_limit.ttl"},
		{&c.LeaderboardCacheAge, fc.Leaderboard.CacheAge, "leaderboard.cache_age"},
	}
	for _, d := range durations {
		if d.src == nil {
			continue
		}
		parsed, err := time.ParseDuration(*d.src)
		if err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = parsed
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = util.GetEnvString("PORT", c.Port)
	if os.Getenv("GIN_MODE") == "release" || os.Getenv("ENV") == "production" {
		c.IsProduction = true
	}
	c.SessionTTL = util.GetEnvDuration("SESSION_TTL", c.SessionTTL)
	c.SessionCleanupInterval = util.GetEnvDuration("SESSION_CLEANUP_INTERVAL", c.SessionCleanupInterval)
	c.SessionCapacity = util.GetEnvInt("SESSION_CAPACITY", c.SessionCapacity)
	c.RateLimitRPS = util.GetEnvInt("RATE_LIMIT_RPS", c.RateLimitRPS)
	c.RateLimitBurst = util.GetEnvInt("RATE_LIMIT_BURST", c.RateLimitBurst)
	c.RateLimiterTTL = util.GetEnvDuration("RATE_LIMITER_TTL", c.RateLimiterTTL)
	c.LeaderboardBackend = strings.ToLower(util.GetEnvString("LEADERBOARD_BACKEND", c.LeaderboardBackend))
	c.LeaderboardPath = util.GetEnvString("LEADERBOARD_PATH", c.LeaderboardPath)
	c.DatabaseURL = util.GetEnvString("DATABASE_URL", c.DatabaseURL)
	c.LeaderboardCacheAge = util.GetEnvDuration("LEADERBOARD_CACHE_AGE", c.LeaderboardCacheAge)
	c.MaxBodyBytes = util.GetEnvInt64("MAX_BODY_BYTES", c.MaxBodyBytes)
}

var backends = []string{
	constants.BackendFile,
	constants.BackendSQLite,
	constants.BackendPostgres,
	constants.BackendMySQL,
}

// Validate checks the backend choice and fills in its default path.
func (c *Config) Validate() error {
	c.LeaderboardBackend = strings.ToLower(c.LeaderboardBackend)
	if !lo.Contains(backends, c.LeaderboardBackend) {
		return fmt.Errorf("unsupported leaderboard backend %q (want one of %s)", c.LeaderboardBackend, strings.Join(backends, ", "))
	}
	switch c.LeaderboardBackend {
	case constants.BackendFile:
		if c.LeaderboardPath == "" {
			c.LeaderboardPath = "data/scores.json"
		}
	case constants.BackendSQLite:
		if c.LeaderboardPath == "" {
			c.LeaderboardPath = "data/scores.db"
		}
	default:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s leaderboard backend", c.LeaderboardBackend)
		}
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = Defaults().MaxBodyBytes
	}
	return nil
}

func (c Config) Mode() string {
	return lo.Ternary(c.IsProduction, "production", "development")
}

func setString(dst *string, src *string) {
	if src != nil && strings.TrimSpace(*src) != "" {
		*dst = strings.TrimSpace(*src)
	}
}

func setValue[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
