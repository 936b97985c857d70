package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
app:
  port: 9090
  gin_mode: test
  asset_base_url: https://assets.example.com
database:
  dsn: host=localhost user=holocron dbname=holocron_test
redis:
  addr: localhost:6379
  db: 1
jwt:
  secret: file-secret
  issuer: holocron
  mobile_ttl: 24h
otp:
  ttl: 2m
  lock_ttl: 5s
oauth:
  login_request_ttl: 120s
  stage_rate_window: 60s
  token_length: 32
aws:
  region: ap-south-1
  bucket: holocron-assets
rate_limit:
  otp_per_minute: 5
  otp_burst: 3
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(testYAML), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeTestConfig(t))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "https://assets.example.com", cfg.AssetBaseURL)
	assert.Equal(t, "file-secret", cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.MobileSessionTTL)
	assert.Equal(t, 2*time.Minute, cfg.OTP_TTL)
	assert.Equal(t, 5*time.Second, cfg.OTP_LockTTL)
	assert.Equal(t, 120*time.Second, cfg.LoginRequestTTL)
	assert.Equal(t, 60*time.Second, cfg.StageRateWindow)
	assert.Equal(t, "ap-south-1", cfg.AWSRegion)
	assert.Equal(t, "holocron-assets", cfg.AWSBucket)
	assert.Equal(t, 32, cfg.TokenLength)
	assert.Equal(t, 5.0, cfg.OTPRatePerMinute)
	assert.Equal(t, 3, cfg.OTPRateBurst)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeTestConfig(t))
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("REDIS_ADDR", "redis.internal:6380")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.JWTSecret)
	assert.Equal(t, "redis.internal:6380", cfg.RedisAddr)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yml")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_BadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	broken := strings.Replace(testYAML, "ttl: 2m", "ttl: not-a-duration", 1)
	require.NoError(t, os.WriteFile(path, []byte(broken), 0o600))
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	assert.Error(t, err)
}
