package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "")
	t.Setenv("JWT_ALGORITHM", "")
	t.Setenv("ACCESS_TOKEN_TTL", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg := Load()

	assert.Equal(t, []byte("secret"), cfg.JWTSecret)
	assert.Equal(t, "HS256", cfg.JWTAlgorithm)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, time.Hour, cfg.AccessTokenTTL)
	assert.Nil(t, cfg.KafkaBrokers)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("PORT", "9090")
	t.Setenv("HOST", "0.0.0.0")
	t.Setenv("ACCESS_TOKEN_TTL", "30m")
	t.Setenv("KAFKA_BROKERS", "kafka:9092, kafka2:9092,")
	t.Setenv("SECURE_COOKIES", "false")

	cfg := Load()

	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, []string{"kafka:9092", "kafka2:9092"}, cfg.KafkaBrokers)
	assert.False(t, cfg.SecureCookies)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{name: "missing secret", cfg: Config{JWTAlgorithm: "HS256", AccessTokenTTL: time.Hour}, wantErr: ErrMissingSecret},
		{name: "asymmetric alg", cfg: Config{JWTSecret: []byte("s"), JWTAlgorithm: "RS256", AccessTokenTTL: time.Hour}, wantErr: ErrUnsupportedAlg},
		{name: "zero ttl", cfg: Config{JWTSecret: []byte("s"), JWTAlgorithm: "HS256"}, wantErr: ErrInvalidTokenTTL},
		{name: "lower case alg", cfg: Config{JWTSecret: []byte("s"), JWTAlgorithm: "hs512", AccessTokenTTL: time.Hour}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEnvHelpers_FallBackOnGarbage(t *testing.T) {
	t.Setenv("X_INT", "abc")
	t.Setenv("X_DUR", "soon")
	t.Setenv("X_BOOL", "maybe")

	assert.Equal(t, 7, EnvIntDefault("X_INT", 7))
	assert.Equal(t, time.Second, EnvDurationDefault("X_DUR", time.Second))
	assert.True(t, EnvBoolDefault("X_BOOL", true))
}
