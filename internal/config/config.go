// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
}

type PaymentsConfig struct {
	// Driver selects the verifier: stripe, omise or fake.
	Driver           string        `yaml:"driver"`
	PlatformFeeRate  string        `yaml:"platform_fee_rate"`
	VerifyTimeout    time.Duration `yaml:"verify_timeout"`
	StoreTimeout     time.Duration `yaml:"store_timeout"`
	FakeSessionsFile string        `yaml:"fake_sessions_file"`
}

type ReconcileConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Cron      string        `yaml:"cron"`
	BatchSize int           `yaml:"batch_size"`
	MinAge    time.Duration `yaml:"min_age"`
}

type EventsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
}

type EmailConfig struct {
	Enabled bool   `yaml:"enabled"`
	Region  string `yaml:"region"`
	Sender  string `yaml:"sender"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
	Burst             int `yaml:"burst"`
}

// Secrets are read from the environment only.
type Secrets struct {
	StripeSecretKey     string `envconfig:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `envconfig:"STRIPE_WEBHOOK_SECRET"`
	OmisePublicKey      string `envconfig:"OMISE_PUBLIC_KEY"`
	OmiseSecretKey      string `envconfig:"OMISE_SECRET_KEY"`
	AMQPURL             string `envconfig:"AMQP_URL"`
	AWSAccessKeyID      string `envconfig:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey  string `envconfig:"AWS_SECRET_ACCESS_KEY"`
}

type Config struct {
	App struct {
		Name            string        `yaml:"name"`
		Environment     string        `yaml:"environment"`
		Port            int           `yaml:"port"`
		BaseURL         string        `yaml:"base_url"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"app"`

	Database  DatabaseConfig  `yaml:"database"`
	Payments  PaymentsConfig  `yaml:"payments"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
	Events    EventsConfig    `yaml:"events"`
	Email     EmailConfig     `yaml:"email"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	Secrets Secrets `yaml:"-"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	if err := envconfig.Process("", &cfg.Secrets); err != nil {
		return nil, fmt.Errorf("error loading secrets: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML on top of the defaults. It does not read secrets or validate.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	return cfg, nil
}

func Default() *Config {
	cfg := &Config{}
	cfg.App.Name = "courtside"
	cfg.App.Environment = "development"
	cfg.App.Port = 8080
	cfg.App.ShutdownTimeout = 30 * time.Second
	cfg.Database = DatabaseConfig{Driver: "sqlite", Filename: "data/courtside.db"}
	cfg.Payments = PaymentsConfig{
		Driver:          "stripe",
		PlatformFeeRate: "0.15",
		VerifyTimeout:   10 * time.Second,
		StoreTimeout:    5 * time.Second,
	}
	cfg.Reconcile = ReconcileConfig{
		Enabled:   true,
		Cron:      "*/5 * * * *",
		BatchSize: 50,
		MinAge:    10 * time.Minute,
	}
	cfg.Events = EventsConfig{Exchange: "payments", RoutingKey: "payment.confirmed"}
	cfg.RateLimit = RateLimitConfig{RequestsPerMinute: 60, Burst: 20}
	return cfg
}

// FeeRate returns the parsed platform fee rate. Validate has already checked it.
func (c *Config) FeeRate() decimal.Decimal {
	rate, err := decimal.NewFromString(c.Payments.PlatformFeeRate)
	if err != nil {
		return decimal.Zero
	}
	return rate
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	switch c.Payments.Driver {
	case "stripe":
		if c.Secrets.StripeSecretKey == "" {
			return fmt.Errorf("STRIPE_SECRET_KEY is required for the stripe payments driver")
		}
	case "omise":
		if c.Secrets.OmisePublicKey == "" || c.Secrets.OmiseSecretKey == "" {
			return fmt.Errorf("OMISE_PUBLIC_KEY and OMISE_SECRET_KEY are required for the omise payments driver")
		}
	case "fake":
		if c.App.Environment == "production" {
			return fmt.Errorf("the fake payments driver is not allowed in production")
		}
	default:
		return fmt.Errorf("unsupported payments driver: %s", c.Payments.Driver)
	}

	rate, err := decimal.NewFromString(c.Payments.PlatformFeeRate)
	if err != nil {
		return fmt.Errorf("invalid platform fee rate %q: %w", c.Payments.PlatformFeeRate, err)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("platform fee rate must be between 0 and 1, got %s", rate)
	}
	if c.Payments.VerifyTimeout <= 0 || c.Payments.StoreTimeout <= 0 {
		return fmt.Errorf("payments verify_timeout and store_timeout must be positive")
	}

	if c.Reconcile.Enabled {
		if _, err := cron.ParseStandard(c.Reconcile.Cron); err != nil {
			return fmt.Errorf("invalid reconcile cron %q: %w", c.Reconcile.Cron, err)
		}
		if c.Reconcile.BatchSize <= 0 {
			return fmt.Errorf("reconcile batch_size must be positive")
		}
		if c.Reconcile.MinAge < 0 {
			return fmt.Errorf("reconcile min_age must not be negative")
		}
	}

	if c.Events.Enabled {
		if c.Secrets.AMQPURL == "" {
			return fmt.Errorf("AMQP_URL is required when events are enabled")
		}
		if c.Events.Exchange == "" || c.Events.RoutingKey == "" {
			return fmt.Errorf("events exchange and routing_key are required")
		}
	}

	if c.Email.Enabled {
		if c.Email.Region == "" || c.Email.Sender == "" {
			return fmt.Errorf("email region and sender are required when email is enabled")
		}
		if c.Secrets.AWSAccessKeyID == "" || c.Secrets.AWSSecretAccessKey == "" {
			return fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY are required when email is enabled")
		}
	}

	if c.RateLimit.RequestsPerMinute < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("rate limit values must not be negative")
	}

	return nil
}
