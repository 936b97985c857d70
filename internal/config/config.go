package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port         int    `yaml:"port"`
	GinMode      string `yaml:"gin_mode"`
	AssetBaseURL string `yaml:"asset_base_url"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret    string `yaml:"secret"`
	Issuer    string `yaml:"issuer"`
	MobileTTL string `yaml:"mobile_ttl"`
}

type OTPConfig struct {
	TTL     string `yaml:"ttl"`
	LockTTL string `yaml:"lock_ttl"`
}

type OAuthConfig struct {
	LoginRequestTTL string `yaml:"login_request_ttl"`
	StageRateWindow string `yaml:"stage_rate_window"`
	TokenLength     int    `yaml:"token_length"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type AWSConfig struct {
	Region string `yaml:"region"`
	Bucket string `yaml:"bucket"`
}

type RateLimitConfig struct {
	OTPPerMinute float64 `yaml:"otp_per_minute"`
	OTPBurst     int     `yaml:"otp_burst"`
}

type ConfigFile struct {
	App       AppConfig       `yaml:"app"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	JWT       JWTConfig       `yaml:"jwt"`
	OTP       OTPConfig       `yaml:"otp"`
	OAuth     OAuthConfig     `yaml:"oauth"`
	Twilio    TwilioConfig    `yaml:"twilio"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	AWS       AWSConfig       `yaml:"aws"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type Config struct {
	Port         string
	GinMode      string
	AssetBaseURL string

	DSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret        string
	JWTIssuer        string
	MobileSessionTTL time.Duration

	OTP_TTL     time.Duration
	OTP_LockTTL time.Duration

	LoginRequestTTL time.Duration
	StageRateWindow time.Duration
	TokenLength     int

	TwilioSID   string
	TwilioToken string
	TwilioFrom  string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	AWSRegion          string
	AWSBucket          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	OTPRatePerMinute float64
	OTPRateBurst     int
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() (*Config, error) {
	configFile, err := loadConfigFile(env("CONFIG_PATH", "config/config.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	mobileTTL, err := time.ParseDuration(configFile.JWT.MobileTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid mobile session TTL: %w", err)
	}

	otpTTL, err := time.ParseDuration(configFile.OTP.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP TTL: %w", err)
	}

	lockTTL, err := time.ParseDuration(configFile.OTP.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP lock TTL: %w", err)
	}

	reqTTL, err := time.ParseDuration(configFile.OAuth.LoginRequestTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid login request TTL: %w", err)
	}

	rateWnd, err := time.ParseDuration(configFile.OAuth.StageRateWindow)
	if err != nil {
		return nil, fmt.Errorf("invalid stage rate window: %w", err)
	}

	return &Config{
		Port:               fmt.Sprintf("%d", configFile.App.Port),
		GinMode:            configFile.App.GinMode,
		AssetBaseURL:       configFile.App.AssetBaseURL,
		DSN:                env("DATABASE_DSN", configFile.Database.DSN),
		RedisAddr:          env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword:      configFile.Redis.Password,
		RedisDB:            configFile.Redis.DB,
		JWTSecret:          env("JWT_SECRET", configFile.JWT.Secret),
		JWTIssuer:          configFile.JWT.Issuer,
		MobileSessionTTL:   mobileTTL,
		OTP_TTL:            otpTTL,
		OTP_LockTTL:        lockTTL,
		LoginRequestTTL:    reqTTL,
		StageRateWindow:    rateWnd,
		TokenLength:        configFile.OAuth.TokenLength,
		TwilioSID:          configFile.Twilio.AccountSID,
		TwilioToken:        configFile.Twilio.AuthToken,
		TwilioFrom:         configFile.Twilio.FromNumber,
		SMTPHost:           configFile.SMTP.Host,
		SMTPPort:           configFile.SMTP.Port,
		SMTPUsername:       configFile.SMTP.Username,
		SMTPPassword:       configFile.SMTP.Password,
		SMTPFrom:           configFile.SMTP.From,
		AWSRegion:          configFile.AWS.Region,
		AWSBucket:          configFile.AWS.Bucket,
		AWSAccessKeyID:     env("ACCESS_KEY_ID_AWS", ""),
		AWSSecretAccessKey: env("SECRET_ACCESS_KEY_AWS", ""),
		OTPRatePerMinute:   configFile.RateLimit.OTPPerMinute,
		OTPRateBurst:       configFile.RateLimit.OTPBurst,
	}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
