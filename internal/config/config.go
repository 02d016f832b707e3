// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds identity server configuration loaded from the environment.
type Config struct {
	// GRPCAddr is the address the gRPC server listens on (e.g. :8080).
	GRPCAddr string `mapstructure:"GRPC_ADDR"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// JWTPrivateKey is the PEM-encoded private key (RSA or ECDSA) or path to file; used with JWT_PUBLIC_KEY for RS256/ES256.
	JWTPrivateKey string `mapstructure:"JWT_PRIVATE_KEY"`
	// JWTPublicKey is the PEM-encoded public key or path to file; used with JWT_PRIVATE_KEY.
	JWTPublicKey string `mapstructure:"JWT_PUBLIC_KEY"`
	// JWTIssuer is the iss claim on session tokens.
	JWTIssuer string `mapstructure:"JWT_ISSUER"`
	// JWTAudience is the aud claim on session tokens.
	JWTAudience string `mapstructure:"JWT_AUDIENCE"`
	// JWTAccessTTL is the access token lifetime (e.g. "15m").
	JWTAccessTTL string `mapstructure:"JWT_ACCESS_TTL"`
	// JWTRefreshTTL is the refresh token lifetime (e.g. "720h").
	JWTRefreshTTL string `mapstructure:"JWT_REFRESH_TTL"`
	// BcryptCost is the bcrypt cost used to hash OTP codes at rest (4–31).
	BcryptCost int `mapstructure:"BCRYPT_COST"`

	// OTPChallengeTTL is how long a phone challenge stays valid (e.g. "60s").
	OTPChallengeTTL string `mapstructure:"OTP_CHALLENGE_TTL"`
	// OTPMaxAttempts is the number of wrong codes after which a challenge is dropped.
	OTPMaxAttempts int `mapstructure:"OTP_MAX_ATTEMPTS"`
	// SMSLocalAPIKey is the API key for SMS Local. Required unless OTPReturnToClient is set.
	SMSLocalAPIKey string `mapstructure:"SMS_LOCAL_API_KEY"`
	// SMSLocalSender is the optional sender ID for SMS Local.
	SMSLocalSender string `mapstructure:"SMS_LOCAL_SENDER"`
	// SMSLocalBaseURL is the SMS Local API base URL.
	SMSLocalBaseURL string `mapstructure:"SMS_LOCAL_BASE_URL"`
	// DefaultTrustTTLDays is how long a device stays trusted after a successful OTP, unless the policy says otherwise.
	DefaultTrustTTLDays int `mapstructure:"DEFAULT_TRUST_TTL_DAYS"`
	// PolicyFile is an optional path to a Rego file replacing the built-in phone verification policy.
	PolicyFile string `mapstructure:"POLICY_FILE"`
	// OTPReturnToClient when true enables dev OTP mode: no SMS, OTP readable through DevService/GetOTP.
	// Must not be true when Env is production.
	OTPReturnToClient bool `mapstructure:"OTP_RETURN_TO_CLIENT"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`

	// GoogleClientIDs is a comma-separated list of OAuth client IDs accepted as the aud of Google ID tokens.
	GoogleClientIDs string `mapstructure:"GOOGLE_CLIENT_IDS"`
	// GoogleJWKSURL is where Google's token signing keys are fetched from.
	GoogleJWKSURL string `mapstructure:"GOOGLE_JWKS_URL"`

	// OTLPEndpoint is the OTLP gRPC collector endpoint; empty disables export.
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext to the collector even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	// ServiceName is the OTel service.name resource attribute.
	ServiceName string `mapstructure:"OTEL_SERVICE_NAME"`

	// TelemetryKafkaBrokers is a comma-separated list of Kafka broker addresses. When set, auth events go to Kafka.
	TelemetryKafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// TelemetryKafkaTopic is the Kafka topic for auth events.
	TelemetryKafkaTopic string `mapstructure:"TELEMETRY_KAFKA_TOPIC"`

	// Worker-only: Loki URL for the telemetry worker to push logs (e.g. http://localhost:3100).
	LokiURL string `mapstructure:"LOKI_URL"`
	// KafkaGroupID is the consumer group ID for the telemetry worker.
	KafkaGroupID string `mapstructure:"KAFKA_GROUP_ID"`
}

// ClientConfig holds configuration for the app-side auth flow.
type ClientConfig struct {
	// IdentityAddr is the identity service gRPC address.
	IdentityAddr string `mapstructure:"IDENTITY_ADDR"`
	// Platform selects the auth repository variant: "android" (phone + Google) or "ios" (Google only).
	Platform string `mapstructure:"AUTH_PLATFORM"`
	// OTPTimeout bounds a single send-OTP call, mirroring the challenge window.
	OTPTimeout string `mapstructure:"AUTH_OTP_TIMEOUT"`
	// KeyringService is the OS keyring service name the session is stored under.
	KeyringService string `mapstructure:"AUTH_KEYRING_SERVICE"`
	// DeviceID overrides the device fingerprint sent with sign-in requests.
	DeviceID string `mapstructure:"AUTH_DEVICE_ID"`
}

const (
	PlatformAndroid = "android"
	PlatformIOS     = "ios"
)

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound
	v.AutomaticEnv()
	return v
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := newViper()

	v.SetDefault("GRPC_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_ISSUER", "grunzimmer-auth")
	v.SetDefault("JWT_AUDIENCE", "grunzimmer-app")
	v.SetDefault("JWT_ACCESS_TTL", "15m")
	v.SetDefault("JWT_REFRESH_TTL", "720h") // 30d
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("OTP_CHALLENGE_TTL", "60s")
	v.SetDefault("OTP_MAX_ATTEMPTS", 5)
	v.SetDefault("SMS_LOCAL_BASE_URL", "https://app.smslocal.in/api/smsapi")
	v.SetDefault("DEFAULT_TRUST_TTL_DAYS", 30)
	v.SetDefault("POLICY_FILE", "")
	v.SetDefault("OTP_RETURN_TO_CLIENT", false)
	v.SetDefault("APP_ENV", "")
	v.SetDefault("GOOGLE_CLIENT_IDS", "")
	v.SetDefault("GOOGLE_JWKS_URL", "https://www.googleapis.com/oauth2/v3/certs")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("OTEL_SERVICE_NAME", "grunzimmer-identity")
	v.SetDefault("TELEMETRY_KAFKA_TOPIC", "grunzimmer-auth-events")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("LOKI_URL", "")
	v.SetDefault("KAFKA_GROUP_ID", "grunzimmer-auth-worker")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.GRPCAddr == "" {
		return nil, errors.New("config: GRPC_ADDR must be set")
	}

	if cfg.OTPReturnToClient && cfg.Env == "production" {
		return nil, errors.New("config: OTP_RETURN_TO_CLIENT must not be true when APP_ENV=production")
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 10
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}
	if cfg.OTPMaxAttempts <= 0 {
		return nil, errors.New("config: OTP_MAX_ATTEMPTS must be positive")
	}

	return &cfg, nil
}

// LoadClient reads .env (if present) and the environment into a ClientConfig.
func LoadClient() (*ClientConfig, error) {
	v := newViper()

	v.SetDefault("IDENTITY_ADDR", "localhost:8080")
	v.SetDefault("AUTH_PLATFORM", PlatformAndroid)
	v.SetDefault("AUTH_OTP_TIMEOUT", "60s")
	v.SetDefault("AUTH_KEYRING_SERVICE", "com.grunzimmer.app")
	v.SetDefault("AUTH_DEVICE_ID", "")

	var cfg ClientConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.Platform = strings.ToLower(strings.TrimSpace(cfg.Platform))
	if cfg.Platform != PlatformAndroid && cfg.Platform != PlatformIOS {
		return nil, errors.New("config: AUTH_PLATFORM must be android or ios")
	}
	if cfg.IdentityAddr == "" {
		return nil, errors.New("config: IDENTITY_ADDR must be set")
	}
	return &cfg, nil
}

// AccessTTL parses JWTAccessTTL as a time.Duration. Returns 15m if unset or invalid.
func (c *Config) AccessTTL() time.Duration {
	return parseDuration(c.JWTAccessTTL, 15*time.Minute)
}

// RefreshTTL parses JWTRefreshTTL as a time.Duration. Returns 720h if unset or invalid.
func (c *Config) RefreshTTL() time.Duration {
	return parseDuration(c.JWTRefreshTTL, 720*time.Hour)
}

// ChallengeTTL parses OTPChallengeTTL. Returns 60s if unset or invalid.
func (c *Config) ChallengeTTL() time.Duration {
	return parseDuration(c.OTPChallengeTTL, 60*time.Second)
}

// GoogleClientIDList returns the accepted Google OAuth client IDs.
func (c *Config) GoogleClientIDList() []string {
	if c == nil {
		return nil
	}
	return splitList(c.GoogleClientIDs)
}

// TelemetryKafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// Used to decide if event streaming is enabled (non-empty list) and to create the producer.
func (c *Config) TelemetryKafkaBrokersList() []string {
	if c == nil {
		return nil
	}
	return splitList(c.TelemetryKafkaBrokers)
}

// Timeout parses OTPTimeout. Returns 60s if unset or invalid.
func (c *ClientConfig) Timeout() time.Duration {
	return parseDuration(c.OTPTimeout, 60*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
