package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/finsim/ofxserve/pkg/domain"
)

// Config holds application configuration.
type Config struct {
	// Server
	ServerAddr string
	ServerPort int
	PathPrefix string

	// Artificial per-request latency, for UI realism when a client
	// application is pointed at this server.
	ResponseDelay time.Duration

	// Initial credential set
	UserName       string
	Password       string
	UserCred1Label string
	UserCred1      string
	UserCred2Label string
	UserCred2      string

	// AUTHTOKEN requirement (enabled when the label is non-empty)
	AuthTokenLabel string
	AuthToken      string

	// MFA enables the standard challenge set at startup.
	MFA bool

	// ChangePassword forces a password change on first sign-on.
	ChangePassword bool

	// FixtureFile optionally overrides challenges and payees (YAML).
	FixtureFile string

	// Rate limiting (admin surface)
	RateLimit RateLimitConfig
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
}

// Fixture is the optional YAML file overriding the MFA challenge set
// and the sample payee table.
type Fixture struct {
	Challenges []domain.MFAChallenge `yaml:"challenges"`
	Payees     []domain.SamplePayee  `yaml:"payees"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		// Server defaults: loopback only, this is a test double.
		ServerAddr: getEnv("OFX_SERVER_ADDR", "127.0.0.1"),
		ServerPort: getEnvInt("OFX_SERVER_PORT", 3000),
		PathPrefix: getEnv("OFX_PATH_PREFIX", "/ofx/test/"),

		ResponseDelay: getEnvDuration("OFX_RESPONSE_DELAY", 0),

		UserName:       getEnv("OFX_USER_NAME", "test"),
		Password:       getEnv("OFX_PASSWORD", "test"),
		UserCred1Label: getEnv("OFX_USER_CRED1_LABEL", ""),
		UserCred1:      getEnv("OFX_USER_CRED1", ""),
		UserCred2Label: getEnv("OFX_USER_CRED2_LABEL", ""),
		UserCred2:      getEnv("OFX_USER_CRED2", ""),

		AuthTokenLabel: getEnv("OFX_AUTH_TOKEN_LABEL", ""),
		AuthToken:      getEnv("OFX_AUTH_TOKEN", ""),

		MFA:            getEnvBool("OFX_MFA", false),
		ChangePassword: getEnvBool("OFX_CHANGE_PASSWORD", false),

		FixtureFile: getEnv("OFX_FIXTURE_FILE", ""),

		RateLimit: RateLimitConfig{
			Enabled:           getEnvBool("OFX_RATE_LIMIT", false),
			RequestsPerMinute: getEnvInt("OFX_RATE_LIMIT_RPM", 600),
		},
	}

	if cfg.UserName == "" {
		return nil, fmt.Errorf("OFX_USER_NAME must not be empty")
	}
	if cfg.PathPrefix == "" || cfg.PathPrefix[0] != '/' {
		return nil, fmt.Errorf("OFX_PATH_PREFIX must start with '/'")
	}

	return cfg, nil
}

// URL returns the endpoint address advertised in profile responses.
func (c *Config) URL() string {
	return fmt.Sprintf("http://%s:%d%s", c.ServerAddr, c.ServerPort, c.PathPrefix)
}

// LoadFixture reads a YAML fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture file %s: %w", path, err)
	}
	return &f, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
