package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/tombowditch/pastebin/pastebin"
)

const (
	// Emulator defaults
	FakebinAddr    = "127.0.0.1:3334"
	FakebinBaseURL = "http://127.0.0.1:3334"

	// Redis defaults
	RedisPassword = ""
	RedisDB       = 0

	// Paste settings
	MaxPayloadSize = pastebin.MaxPasteSize

	// ID length of generated paste keys
	IDLength = 8

	// Rate limit defaults: one paste per RateEvery, bursting to RateBurst
	RateEvery = 5 * time.Second
	RateBurst = 5
)

// KnownFormats lists the syntax formats the emulator accepts.
var KnownFormats = []string{
	"text", "bash", "c", "cpp", "csharp", "css", "diff", "go", "haskell",
	"html5", "java", "javascript", "json", "kotlin", "lua", "make",
	"markdown", "perl", "php", "python", "ruby", "rust", "sql", "swift",
	"typescript", "xml", "yaml",
}

// Secret hides its value from logs and fmt output.
type Secret struct {
	value string
}

func NewSecret(s string) Secret {
	return Secret{value: s}
}

func (s Secret) Value() string {
	return s.value
}

func (s Secret) String() string {
	if s.value == "" {
		return ""
	}
	return "***REDACTED***"
}

// Config holds settings for the CLI and the emulator.
type Config struct {
	// Client
	APIKey      Secret
	APIURL      string
	BaseURL     string
	ErrorPrefix string

	// Logging
	LogLevel string
	LogDev   bool

	// Emulator
	FakebinAddr        string
	FakebinBaseURL     string
	FakebinDevKeys     []string
	FakebinErrorPrefix string
	TrustProxy         bool
	RedisURI           string
	RedisPassword      Secret
	RedisDB            int
	RateEvery          time.Duration
	RateBurst          int
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first if present; variables already set
// in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "loading .env")
	}

	c := &Config{}
	c.APIKey = NewSecret(getEnv("PASTEBIN_API_KEY", ""))
	c.APIURL = getEnv("PASTEBIN_API_URL", pastebin.DefaultAPIURL)
	c.BaseURL = getEnv("PASTEBIN_BASE_URL", pastebin.DefaultBaseURL)
	c.ErrorPrefix = getEnv("PASTEBIN_ERROR_PREFIX", "")
	c.LogLevel = getEnv("LOG_LEVEL", "info")
	c.LogDev = getEnv("LOG_DEV", "false") == "true"

	c.FakebinAddr = getEnv("FAKEBIN_ADDR", FakebinAddr)
	c.FakebinBaseURL = getEnv("FAKEBIN_BASE_URL", FakebinBaseURL)
	c.FakebinDevKeys = getSlice("FAKEBIN_DEV_KEYS", nil)
	c.FakebinErrorPrefix = getEnv("FAKEBIN_ERROR_PREFIX", "")
	c.TrustProxy = getEnv("TRUST_PROXY", "false") == "true"
	c.RedisURI = getEnv("REDIS_URI", "")
	c.RedisPassword = NewSecret(getEnv("REDIS_PASSWORD", RedisPassword))

	var err error
	c.RedisDB, err = getInt("REDIS_DB", RedisDB)
	if err != nil {
		return nil, err
	}
	c.RateEvery, err = getDuration("RATE_EVERY", RateEvery)
	if err != nil {
		return nil, err
	}
	c.RateBurst, err = getInt("RATE_BURST", RateBurst)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the settings shared by every binary.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return errors.New("PASTEBIN_API_URL must be an http(s) URL")
	}
	if c.BaseURL == "" {
		return errors.New("PASTEBIN_BASE_URL is required")
	}
	if c.RedisDB < 0 {
		return errors.New("REDIS_DB must not be negative")
	}
	if c.RateEvery <= 0 {
		return errors.New("RATE_EVERY must be positive")
	}
	if c.RateBurst <= 0 {
		return errors.New("RATE_BURST must be positive")
	}
	return nil
}

// ValidateClient additionally requires a developer key.
func (c *Config) ValidateClient() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.APIKey.Value() == "" {
		return errors.New("PASTEBIN_API_KEY is required")
	}
	return nil
}

// ValidateFakebin additionally requires at least one accepted dev key.
func (c *Config) ValidateFakebin() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if len(c.FakebinDevKeys) == 0 {
		return errors.New("FAKEBIN_DEV_KEYS is required")
	}
	if c.FakebinBaseURL == "" {
		return errors.New("FAKEBIN_BASE_URL is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	s := getEnv(key, "")
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid integer for %s", key)
	}
	return v, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := getEnv(key, "")
	if s == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid duration for %s", key)
	}
	return v, nil
}

func getSlice(key string, fallback []string) []string {
	s := getEnv(key, "")
	if s == "" {
		return fallback
	}
	var result []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
