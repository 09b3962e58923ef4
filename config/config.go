package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	HTTP          HTTPConfig          `yaml:"http"`
	JWT           JWTConfig           `yaml:"jwt"`
	Archive       ArchiveConfig       `yaml:"archive"`
	Scoring       ScoringConfig       `yaml:"scoring"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL        string `yaml:"url"`
	NKeySeed   string `yaml:"nkey_seed"`
	QueueGroup string `yaml:"queue_group"`
}

// HTTPConfig holds the API server configuration. CORS is enabled only for
// AllowedOrigins; an empty list serves same-origin clients only.
type HTTPConfig struct {
	Addr            string   `yaml:"addr"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
	WritesPerSecond float64  `yaml:"writes_per_second"`
	WriteBurst      int      `yaml:"write_burst"`
}

// JWTConfig holds the participant token secret.
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// ArchiveConfig holds the object storage used for finished matchdays. An
// empty bucket disables archiving.
type ArchiveConfig struct {
	Bucket          string        `yaml:"bucket"`
	Region          string        `yaml:"region"`
	Endpoint        string        `yaml:"endpoint"`
	Prefix          string        `yaml:"prefix"`
	AccessKeyID     string        `yaml:"access_key_id"`
	SecretAccessKey string        `yaml:"secret_access_key"`
	Interval        time.Duration `yaml:"interval"`
}

// ScoringConfig is the point scale for tournaments without a stored one.
type ScoringConfig struct {
	ExactScorePoints           int  `yaml:"exact_score_points"`
	CorrectResultPoints        int  `yaml:"correct_result_points"`
	IncorrectResultPoints      int  `yaml:"incorrect_result_points"`
	DefaultPredictionMaxPoints int  `yaml:"default_prediction_max_points"`
	BonusMatchEnabled          bool `yaml:"bonus_match_enabled"`
	EarlyBonusEnabled          bool `yaml:"early_bonus_enabled"`
	QualifierBonusEnabled      bool `yaml:"qualifier_bonus_enabled"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	LogLevel       string `yaml:"log_level"`
	MetricsAddress string `yaml:"metrics_address"`
	Environment    string `yaml:"environment"`
}

// Defaults returns the configuration used before the file and environment
// are applied.
func Defaults() Config {
	return Config{
		NATS: NATSConfig{QueueGroup: "matchday-bot"},
		HTTP: HTTPConfig{
			Addr:            ":8080",
			WritesPerSecond: 1,
			WriteBurst:      5,
		},
		Archive: ArchiveConfig{
			Region:   "auto",
			Interval: 15 * time.Minute,
		},
		Scoring: ScoringConfig{
			ExactScorePoints:           3,
			CorrectResultPoints:        1,
			IncorrectResultPoints:      0,
			DefaultPredictionMaxPoints: 1,
			BonusMatchEnabled:          true,
		},
		Observability: ObservabilityConfig{LogLevel: "info"},
	}
}

// LoadConfig loads the configuration from a YAML file, then applies a .env
// file and environment overrides. A missing file falls back to the
// environment alone, which must then provide DATABASE_URL and NATS_URL.
func LoadConfig(filename string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := Defaults()
	data, err := os.ReadFile(filename)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		if os.Getenv("DATABASE_URL") == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable not set")
		}
		if os.Getenv("NATS_URL") == "" {
			return nil, fmt.Errorf("NATS_URL environment variable not set")
		}
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv overrides cfg with any environment variable that is set.
func applyEnv(cfg *Config) error {
	setString("DATABASE_URL", &cfg.Postgres.DSN)
	setString("NATS_URL", &cfg.NATS.URL)
	setString("NATS_NKEY_SEED", &cfg.NATS.NKeySeed)
	setString("NATS_QUEUE_GROUP", &cfg.NATS.QueueGroup)
	setString("HTTP_ADDR", &cfg.HTTP.Addr)
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	setString("JWT_SECRET", &cfg.JWT.Secret)
	setString("METRICS_ADDRESS", &cfg.Observability.MetricsAddress)
	setString("LOG_LEVEL", &cfg.Observability.LogLevel)
	setString("ENV", &cfg.Observability.Environment)

	setString("ARCHIVE_BUCKET", &cfg.Archive.Bucket)
	setString("ARCHIVE_REGION", &cfg.Archive.Region)
	setString("ARCHIVE_ENDPOINT", &cfg.Archive.Endpoint)
	setString("ARCHIVE_PREFIX", &cfg.Archive.Prefix)
	setString("ARCHIVE_ACCESS_KEY_ID", &cfg.Archive.AccessKeyID)
	setString("ARCHIVE_SECRET_ACCESS_KEY", &cfg.Archive.SecretAccessKey)

	var errs []error
	if v := os.Getenv("HTTP_WRITES_PER_SECOND"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid HTTP_WRITES_PER_SECOND value: %w", err))
		}
		cfg.HTTP.WritesPerSecond = f
	}
	errs = append(errs,
		setInt("HTTP_WRITE_BURST", &cfg.HTTP.WriteBurst),
		setDuration("ARCHIVE_INTERVAL", &cfg.Archive.Interval),
		setInt("SCORING_EXACT_SCORE_POINTS", &cfg.Scoring.ExactScorePoints),
		setInt("SCORING_CORRECT_RESULT_POINTS", &cfg.Scoring.CorrectResultPoints),
		setInt("SCORING_INCORRECT_RESULT_POINTS", &cfg.Scoring.IncorrectResultPoints),
		setInt("SCORING_DEFAULT_PREDICTION_MAX_POINTS", &cfg.Scoring.DefaultPredictionMaxPoints),
		setBool("SCORING_BONUS_MATCH_ENABLED", &cfg.Scoring.BonusMatchEnabled),
		setBool("SCORING_EARLY_BONUS_ENABLED", &cfg.Scoring.EarlyBonusEnabled),
		setBool("SCORING_QUALIFIER_BONUS_ENABLED", &cfg.Scoring.QualifierBonusEnabled),
	)
	return errors.Join(errs...)
}

func setString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s value: %w", key, err)
	}
	*dst = n
	return nil
}

func setBool(key string, dst *bool) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s value: %w", key, err)
	}
	*dst = b
	return nil
}

func setDuration(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s value: %w", key, err)
	}
	*dst = d
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
