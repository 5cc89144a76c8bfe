package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix is passed to envconfig; variable names carry the full
	// VENDKIOSK_ prefix in their tags so no extra prefix is applied.
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App            AppConfig
	Machine        MachineConfig
	Redis          RedisConfig
	Kiosk          KioskConfig
	AdminRateLimit AdminRateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Machine.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Kiosk.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"VENDKIOSK_APP_ENV" required:"true"`
	Port         string   `envconfig:"VENDKIOSK_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"VENDKIOSK_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"VENDKIOSK_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"VENDKIOSK_CORS_ORIGINS" default:"*"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// MachineConfig points at the vending backend that owns stock, pricing and
// change-making.
type MachineConfig struct {
	BaseURL        string        `envconfig:"VENDKIOSK_MACHINE_BASE_URL" required:"true"`
	RequestTimeout time.Duration `envconfig:"VENDKIOSK_MACHINE_REQUEST_TIMEOUT" default:"10s"`
	// InsecureTLS skips certificate verification for self-signed machine
	// backends on closed networks.
	InsecureTLS bool `envconfig:"VENDKIOSK_MACHINE_INSECURE_TLS" default:"false"`
}

func (m MachineConfig) validate() error {
	parsed, err := url.Parse(m.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid machine base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("machine base url must be http or https, got %q", m.BaseURL)
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"VENDKIOSK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VENDKIOSK_REDIS_ADDR"`
	Password     string        `envconfig:"VENDKIOSK_REDIS_PASSWORD"`
	DB           int           `envconfig:"VENDKIOSK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VENDKIOSK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VENDKIOSK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VENDKIOSK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VENDKIOSK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VENDKIOSK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// KioskConfig tunes per-session behavior: accepted cash denominations and the
// receipt display pacing.
type KioskConfig struct {
	Denominations    []int         `envconfig:"VENDKIOSK_DENOMINATIONS" default:"1,5,10,20,50,100,500,1000"`
	RevealDelay      time.Duration `envconfig:"VENDKIOSK_RECEIPT_REVEAL_DELAY" default:"5s"`
	ReceiptCountdown time.Duration `envconfig:"VENDKIOSK_RECEIPT_COUNTDOWN" default:"30s"`
	SessionTTL       time.Duration `envconfig:"VENDKIOSK_SESSION_TTL" default:"30m"`
	ReapInterval     time.Duration `envconfig:"VENDKIOSK_SESSION_REAP_INTERVAL" default:"1m"`
}

func (k KioskConfig) validate() error {
	if len(k.Denominations) == 0 {
		return fmt.Errorf("at least one denomination is required")
	}
	for _, d := range k.Denominations {
		if d <= 0 {
			return fmt.Errorf("denominations must be positive, got %d", d)
		}
	}
	if k.ReceiptCountdown < time.Second {
		return fmt.Errorf("receipt countdown must be at least one second")
	}
	return nil
}

type AdminRateLimitConfig struct {
	Window  time.Duration `envconfig:"VENDKIOSK_ADMIN_RATE_LIMIT_WINDOW" default:"1m"`
	IPLimit int           `envconfig:"VENDKIOSK_ADMIN_RATE_LIMIT_IP_LIMIT" default:"60"`
}
