package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	gommonbytes "github.com/labstack/gommon/bytes"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration shared by every surface.
type Config struct {
	Server     Server     `yaml:"server"`
	Limits     Limits     `yaml:"limits"`
	Generation Generation `yaml:"generation"`
	Retention  Retention  `yaml:"retention"`

	// DBPath overrides the default database location when set.
	DBPath   string `yaml:"db_path"`
	LogLevel string `yaml:"log_level"`
}

// Server holds HTTP-layer configuration.
type Server struct {
	Addr           string        `yaml:"addr"`
	BodyLimit      string        `yaml:"body_limit"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	RequestLogging bool          `yaml:"request_logging"`
	// CORSOrigins enables CORS on the JSON API for these origins.
	CORSOrigins []string `yaml:"cors_origins"`
}

// Limits bounds the extracted text and the question count.
type Limits struct {
	MinChars         int `yaml:"min_chars"`
	MaxChars         int `yaml:"max_chars"`
	MinQuestions     int `yaml:"min_questions"`
	MaxQuestions     int `yaml:"max_questions"`
	DefaultQuestions int `yaml:"default_questions"`
}

// Generation tunes how questions are requested from the model.
type Generation struct {
	// Structured asks the model for JSON and renders it to text.
	Structured bool `yaml:"structured"`
	// Strict turns format warnings into errors.
	Strict      bool    `yaml:"strict"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// Retention configures the cleanup loop for stored documents.
type Retention struct {
	MaxAge   time.Duration `yaml:"max_age"`
	Interval time.Duration `yaml:"interval"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Server: Server{
			Addr:           "127.0.0.1:8501",
			BodyLimit:      "20M",
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   120 * time.Second,
			RequestLogging: true,
		},
		Limits: Limits{
			MinChars:         200,
			MaxChars:         8000,
			MinQuestions:     1,
			MaxQuestions:     20,
			DefaultQuestions: 5,
		},
		Generation: Generation{
			MaxTokens: 4096,
		},
		Retention: Retention{
			MaxAge:   168 * time.Hour,
			Interval: time.Hour,
		},
		LogLevel: "info",
	}
}

// LoadOptions selects the optional files Load reads.
type LoadOptions struct {
	// File is a YAML config file. Falls back to MCQGEN_CONFIG.
	File string
	// EnvFile is a dotenv file that must exist. When empty, ".env" in the
	// working directory is loaded if present.
	EnvFile string
}

// Load builds a Config from defaults, an optional YAML file and the
// environment, in increasing priority. Variables from the dotenv file
// never override the process environment.
func Load(opts LoadOptions) (*Config, error) {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}

	c := Default()

	file := opts.File
	if file == "" {
		file = os.Getenv("MCQGEN_CONFIG")
	}
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("open config file: %w", err)
		}
		defer f.Close()
		if err := decodeYAML(f, c); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", file, err)
		}
	}

	applyEnv(c)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func loadEnvFile(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func decodeYAML(r io.Reader, c *Config) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(c)
}

func applyEnv(c *Config) {
	c.Server.Addr = getEnv("MCQGEN_ADDR", c.Server.Addr)
	c.Server.BodyLimit = getEnv("MCQGEN_BODY_LIMIT", c.Server.BodyLimit)
	c.Server.ReadTimeout = getDuration("MCQGEN_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getDuration("MCQGEN_WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.RequestLogging = getBool("MCQGEN_REQUEST_LOGGING", c.Server.RequestLogging)
	c.Server.CORSOrigins = getList("MCQGEN_CORS_ORIGINS", c.Server.CORSOrigins)

	c.Limits.MinChars = getInt("MCQGEN_MIN_CHARS", c.Limits.MinChars)
	c.Limits.MaxChars = getInt("MCQGEN_MAX_CHARS", c.Limits.MaxChars)
	c.Limits.MaxQuestions = getInt("MCQGEN_MAX_QUESTIONS", c.Limits.MaxQuestions)
	c.Limits.DefaultQuestions = getInt("MCQGEN_DEFAULT_QUESTIONS", c.Limits.DefaultQuestions)

	c.Generation.Structured = getBool("MCQGEN_STRUCTURED", c.Generation.Structured)
	c.Generation.Strict = getBool("MCQGEN_STRICT", c.Generation.Strict)
	c.Generation.MaxTokens = getInt("MCQGEN_MAX_TOKENS", c.Generation.MaxTokens)

	c.Retention.MaxAge = getDuration("MCQGEN_RETENTION", c.Retention.MaxAge)
	c.Retention.Interval = getDuration("MCQGEN_RETENTION_INTERVAL", c.Retention.Interval)

	c.DBPath = getEnv("MCQGEN_DB", c.DBPath)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("MCQGEN_ADDR must not be empty")
	}
	if _, err := gommonbytes.Parse(c.Server.BodyLimit); err != nil {
		return fmt.Errorf("MCQGEN_BODY_LIMIT %q is not a size: %w", c.Server.BodyLimit, err)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	if c.Limits.MinChars < 0 {
		return fmt.Errorf("MCQGEN_MIN_CHARS cannot be negative")
	}
	if c.Limits.MaxChars <= c.Limits.MinChars {
		return fmt.Errorf("MCQGEN_MAX_CHARS must exceed MCQGEN_MIN_CHARS")
	}
	if c.Limits.MinQuestions < 1 {
		return fmt.Errorf("min questions must be at least 1")
	}
	if c.Limits.MaxQuestions < c.Limits.MinQuestions {
		return fmt.Errorf("MCQGEN_MAX_QUESTIONS cannot be below %d", c.Limits.MinQuestions)
	}
	if c.Limits.DefaultQuestions < c.Limits.MinQuestions || c.Limits.DefaultQuestions > c.Limits.MaxQuestions {
		return fmt.Errorf("MCQGEN_DEFAULT_QUESTIONS must be within %d..%d",
			c.Limits.MinQuestions, c.Limits.MaxQuestions)
	}
	if c.Generation.MaxTokens <= 0 {
		return fmt.Errorf("MCQGEN_MAX_TOKENS must be positive")
	}
	if c.Retention.MaxAge <= 0 {
		return fmt.Errorf("MCQGEN_RETENTION must be positive")
	}
	if c.Retention.Interval <= 0 {
		return fmt.Errorf("MCQGEN_RETENTION_INTERVAL must be positive")
	}
	return nil
}

// BodyLimitBytes returns the parsed upload size limit.
func (s Server) BodyLimitBytes() int64 {
	n, _ := gommonbytes.Parse(s.BodyLimit)
	return n
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			return d
		}
	}
	return fallback
}
