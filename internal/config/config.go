package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds runtime settings. Flags override the environment, which
// overrides .env, which overrides defaults.
type Config struct {
	DBPath        string
	CatalogPath   string
	Backend       string `validate:"oneof=sqlite redis"`
	RedisAddr     string `validate:"required_if=Backend redis"`
	RedisPassword string
	RedisDB       int    `validate:"gte=0"`
	LogMode       string `validate:"oneof=dev prod"`
	LogFile       string
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Backend:   BackendSQLite,
		RedisAddr: "localhost:6379",
		LogMode:   "prod",
	}
}

// Load reads envFiles (default ".env") if present, then COINQUEST_* variables.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	c := Default()
	c.DBPath = os.Getenv("COINQUEST_DB")
	c.CatalogPath = os.Getenv("COINQUEST_CATALOG")
	if v := os.Getenv("COINQUEST_BACKEND"); v != "" {
		c.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("COINQUEST_REDIS_ADDR"); v != "" {
		c.RedisAddr = v
	}
	c.RedisPassword = os.Getenv("COINQUEST_REDIS_PASSWORD")
	if v := os.Getenv("COINQUEST_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("COINQUEST_REDIS_DB: %w", err)
		}
		c.RedisDB = n
	}
	if v := os.Getenv("COINQUEST_LOG_MODE"); v != "" {
		c.LogMode = strings.ToLower(v)
	}
	c.LogFile = os.Getenv("COINQUEST_LOG_FILE")

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

var validate = validator.New()

// Validate checks field constraints and reports them in one error.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (got %v)", fe.Field(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
