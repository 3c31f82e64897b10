package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port               int
	DatabaseURL        string
	DatabaseType       string
	TokenSecret        string
	TokenTTL           time.Duration
	AIEditLatency      time.Duration
	AIEditTimeout      time.Duration
	MaxUploadBytes     int64
	MaxImagePixels     int64
	SessionIdleTimeout time.Duration
	VirtualCamera      bool
}

// Defaults
const (
	DefaultPort               = 3318
	DefaultDatabaseType       = "sqlite"
	DefaultTokenTTL           = 24 * time.Hour
	DefaultAIEditLatency      = 1500 * time.Millisecond
	DefaultAIEditTimeout      = 10 * time.Second
	DefaultMaxUploadBytes     = 25 << 20
	DefaultMaxImagePixels     = 40_000_000
	DefaultSessionIdleTimeout = 30 * time.Minute

	MinTokenSecretLen = 16
)

// fileConfig is the YAML layout. Durations use Go syntax ("1.5s", "30m").
type fileConfig struct {
	Port               int           `yaml:"port"`
	DatabaseURL        string        `yaml:"database_url"`
	DatabaseType       string        `yaml:"database_type"`
	TokenSecret        string        `yaml:"token_secret"`
	TokenTTL           time.Duration `yaml:"token_ttl"`
	AIEditLatency      time.Duration `yaml:"ai_edit_latency"`
	AIEditTimeout      time.Duration `yaml:"ai_edit_timeout"`
	MaxUploadBytes     int64         `yaml:"max_upload_bytes"`
	MaxImagePixels     int64         `yaml:"max_image_pixels"`
	SessionIdleTimeout time.Duration `yaml:"session_idle_timeout"`
	VirtualCamera      bool          `yaml:"virtual_camera"`
}

// ParseFlags builds the Config. Each setting comes from the first source that
// has it: flag, environment (including the .env file), YAML file, default.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var configPath, envFile string

	fs := flag.NewFlagSet("tipper", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.TokenSecret, "token-secret", "", "Access token and session key secret (prefer env)")
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", 0, "Access token lifetime")

	// Editor
	fs.DurationVar(&cfg.AIEditLatency, "ai-latency", 0, "Simulated AI edit latency")
	fs.DurationVar(&cfg.AIEditTimeout, "ai-timeout", 0, "AI edit timeout")
	fs.Int64Var(&cfg.MaxUploadBytes, "max-upload", 0, "Maximum upload size in bytes")
	fs.Int64Var(&cfg.MaxImagePixels, "max-pixels", 0, "Maximum decoded image size in pixels")
	fs.DurationVar(&cfg.SessionIdleTimeout, "session-idle", 0, "Editor session idle timeout")
	fs.BoolVar(&cfg.VirtualCamera, "virtual-camera", false, "Serve a test-pattern camera")

	fs.StringVar(&configPath, "c", "", "YAML config file")
	fs.StringVar(&envFile, "env-file", ".env", "dotenv file to load")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	// .env never overrides variables that are already set
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	if configPath == "" {
		configPath = os.Getenv("TIPPER_CONFIG")
	}
	var file fileConfig
	if configPath != "" {
		var err error
		if file, err = loadFile(configPath); err != nil {
			return Config{}, err
		}
	}

	var err error
	if cfg.Port, err = resolve(set["p"], cfg.Port, "PORT", strconv.Atoi, file.Port, DefaultPort); err != nil {
		return Config{}, err
	}
	if cfg.DatabaseURL, err = resolve(set["d"], cfg.DatabaseURL, "DATABASE_URL", parseString, file.DatabaseURL, ""); err != nil {
		return Config{}, err
	}
	if cfg.DatabaseType, err = resolve(set["t"], cfg.DatabaseType, "DATABASE_TYPE", parseString, file.DatabaseType, DefaultDatabaseType); err != nil {
		return Config{}, err
	}
	if cfg.TokenSecret, err = resolve(set["token-secret"], cfg.TokenSecret, "TOKEN_SECRET", parseString, file.TokenSecret, ""); err != nil {
		return Config{}, err
	}
	if cfg.TokenTTL, err = resolve(set["token-ttl"], cfg.TokenTTL, "TOKEN_TTL", time.ParseDuration, file.TokenTTL, DefaultTokenTTL); err != nil {
		return Config{}, err
	}
	if cfg.AIEditLatency, err = resolve(set["ai-latency"], cfg.AIEditLatency, "AI_EDIT_LATENCY", time.ParseDuration, file.AIEditLatency, DefaultAIEditLatency); err != nil {
		return Config{}, err
	}
	if cfg.AIEditTimeout, err = resolve(set["ai-timeout"], cfg.AIEditTimeout, "AI_EDIT_TIMEOUT", time.ParseDuration, file.AIEditTimeout, DefaultAIEditTimeout); err != nil {
		return Config{}, err
	}
	if cfg.MaxUploadBytes, err = resolve(set["max-upload"], cfg.MaxUploadBytes, "MAX_UPLOAD_BYTES", parseInt64, file.MaxUploadBytes, DefaultMaxUploadBytes); err != nil {
		return Config{}, err
	}
	if cfg.MaxImagePixels, err = resolve(set["max-pixels"], cfg.MaxImagePixels, "MAX_IMAGE_PIXELS", parseInt64, file.MaxImagePixels, DefaultMaxImagePixels); err != nil {
		return Config{}, err
	}
	if cfg.SessionIdleTimeout, err = resolve(set["session-idle"], cfg.SessionIdleTimeout, "SESSION_IDLE_TIMEOUT", time.ParseDuration, file.SessionIdleTimeout, DefaultSessionIdleTimeout); err != nil {
		return Config{}, err
	}
	if cfg.VirtualCamera, err = resolve(set["virtual-camera"], cfg.VirtualCamera, "VIRTUAL_CAMERA", strconv.ParseBool, file.VirtualCamera, false); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks required values and ranges.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DatabaseURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if c.DatabaseType != "sqlite" && c.DatabaseType != "postgres" {
		return fmt.Errorf("unsupported database type %q (sqlite or postgres)", c.DatabaseType)
	}
	// Secrets - MUST be provided
	if c.TokenSecret == "" {
		return errors.New("TOKEN_SECRET required")
	}
	if len(c.TokenSecret) < MinTokenSecretLen {
		return fmt.Errorf("TOKEN_SECRET must be at least %d bytes", MinTokenSecretLen)
	}
	if c.TokenTTL <= 0 || c.AIEditTimeout <= 0 || c.SessionIdleTimeout <= 0 {
		return errors.New("durations must be positive")
	}
	if c.AIEditLatency < 0 {
		return errors.New("AI edit latency must not be negative")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("max upload size must be positive")
	}
	if c.MaxImagePixels <= 0 {
		return errors.New("max image pixels must be positive")
	}
	return nil
}

func loadFile(path string) (fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, fmt.Errorf("read config: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fileConfig{}, fmt.Errorf("parse config: %w", err)
	}
	return fc, nil
}

// resolve picks flag, then env, then file, then default. Zero file values
// count as unset.
func resolve[T comparable](flagSet bool, flagVal T, envKey string, parse func(string) (T, error), fileVal, def T) (T, error) {
	var zero T
	if flagSet {
		return flagVal, nil
	}
	if s := os.Getenv(envKey); s != "" {
		v, err := parse(s)
		if err != nil {
			return zero, fmt.Errorf("invalid %s env variable: %w", envKey, err)
		}
		return v, nil
	}
	if fileVal != zero {
		return fileVal, nil
	}
	return def, nil
}

func parseString(s string) (string, error) { return s, nil }

func parseInt64(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) }
