package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	Host        string
	Port        int
	LogLevel    string

	DatabaseURL string

	JWTSecret      []byte
	JWTAlgorithm   string
	AccessTokenTTL time.Duration

	LoginPath     string
	SecureCookies bool

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string
}

var (
	ErrMissingSecret    = errors.New("missing required env JWT_SECRET")
	ErrUnsupportedAlg   = errors.New("unsupported signing algorithm")
	ErrInvalidTokenTTL  = errors.New("access token ttl must be positive")
	supportedAlgorithms = []string{"HS256", "HS384", "HS512"}
)

// Load reads .env (if present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	return &Config{
		ServiceName: EnvDefault("SERVICE_NAME", "todos"),
		Host:        EnvDefault("HOST", "localhost"),
		Port:        EnvIntDefault("PORT", 8000),
		LogLevel:    os.Getenv("LOG_LEVEL"),

		DatabaseURL: EnvDefault("DATABASE_URL", "todosapp.db"),

		JWTSecret:      []byte(os.Getenv("JWT_SECRET")),
		JWTAlgorithm:   EnvDefault("JWT_ALGORITHM", "HS256"),
		AccessTokenTTL: EnvDurationDefault("ACCESS_TOKEN_TTL", time.Hour),

		LoginPath:     EnvDefault("LOGIN_PATH", "/auth/login-page"),
		SecureCookies: EnvBoolDefault("SECURE_COOKIES", true),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "todos"),
	}
}

// Validate reports configuration that must stop start-up.
func (c *Config) Validate() error {
	if len(c.JWTSecret) == 0 {
		return ErrMissingSecret
	}
	alg := strings.ToUpper(c.JWTAlgorithm)
	ok := false
	for _, a := range supportedAlgorithms {
		if a == alg {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedAlg, c.JWTAlgorithm)
	}
	c.JWTAlgorithm = alg
	if c.AccessTokenTTL <= 0 {
		return ErrInvalidTokenTTL
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
