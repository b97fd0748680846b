// Package gatewayconfig resolves daemon settings: built-in defaults, then an
// optional YAML file, then environment overrides.
package gatewayconfig

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"xrpl-gateway/go-backend/internal/faucet"
	"xrpl-gateway/go-backend/internal/ledger"
	"xrpl-gateway/go-backend/internal/platform/ratelimiter"

	"gopkg.in/yaml.v3"
)

const (
	DefaultEndpoint       = "wss://s.altnet.rippletest.net:51233"
	DefaultRPCAddr        = "127.0.0.1:8787"
	DefaultRequestTimeout = 60 * time.Second

	EnvProduction = "production"
)

const (
	envEndpoint          = "XRPL_ENDPOINT"
	envFaucetURL         = "XRPL_FAUCET_URL"
	envGatewayEnv        = "GATEWAY_ENV"
	envRPCAddr           = "GATEWAY_RPC_ADDR"
	envRateLimitEnabled  = "GATEWAY_RATE_LIMIT_ENABLED"
	envRateLimitRPS      = "GATEWAY_RATE_LIMIT_RPS"
	envRateLimitBurst    = "GATEWAY_RATE_LIMIT_BURST"
	envValidationTimeout = "GATEWAY_VALIDATION_TIMEOUT"
	envAllowedOrigins    = "GATEWAY_ALLOWED_ORIGINS"
)

type Config struct {
	Env            string
	RPCAddr        string
	Ledger         ledger.Config
	FaucetURL      string
	RateLimit      ratelimiter.Config
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// IsDevelopment selects human-readable logs.
func (c Config) IsDevelopment() bool {
	switch strings.ToLower(strings.TrimSpace(c.Env)) {
	case "dev", "development", "local", "test", "testing":
		return true
	default:
		return false
	}
}

type FileConfig struct {
	Env            string        `yaml:"env"`
	RPCAddr        string        `yaml:"rpcAddr"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
	Ledger         FileLedger    `yaml:"ledger"`
	Faucet         FileFaucet    `yaml:"faucet"`
	RateLimit      FileRateLimit `yaml:"rateLimit"`
	CORS           FileCORS      `yaml:"cors"`
}

type FileLedger struct {
	Endpoint          string        `yaml:"endpoint"`
	DialTimeout       time.Duration `yaml:"dialTimeout"`
	RequestTimeout    time.Duration `yaml:"requestTimeout"`
	ValidationTimeout time.Duration `yaml:"validationTimeout"`
	PollInterval      time.Duration `yaml:"pollInterval"`
}

type FileFaucet struct {
	URL string `yaml:"url"`
}

type FileRateLimit struct {
	Enabled *bool   `yaml:"enabled"`
	RPS     float64 `yaml:"rps"`
	Burst   int     `yaml:"burst"`
}

type FileCORS struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

func Default() Config {
	return Config{
		Env:            EnvProduction,
		RPCAddr:        DefaultRPCAddr,
		Ledger:         ledger.Config{Endpoint: DefaultEndpoint}.WithDefaults(),
		FaucetURL:      faucet.DefaultURL,
		RateLimit:      ratelimiter.DefaultConfig(),
		AllowedOrigins: []string{"*"},
		RequestTimeout: DefaultRequestTimeout,
	}
}

// LoadFromPath reads configPath when given and fails if it cannot be used.
// Without a path the conventional locations are tried and skipped when
// absent.
func LoadFromPath(configPath string) (Config, error) {
	cfg := Default()

	candidates := []string{"configs/gateway.yaml", "go-backend/configs/gateway.yaml"}
	if configPath != "" {
		candidates = []string{configPath}
	}
	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			if configPath != "" {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
			continue
		}
		var parsed FileConfig
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		Merge(&cfg, parsed)
		break
	}

	if err := ApplyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Ledger = cfg.Ledger.WithDefaults()
	return cfg, nil
}

func Merge(dst *Config, src FileConfig) {
	if src.Env != "" {
		dst.Env = src.Env
	}
	if src.RPCAddr != "" {
		dst.RPCAddr = src.RPCAddr
	}
	if src.RequestTimeout > 0 {
		dst.RequestTimeout = src.RequestTimeout
	}
	if src.Ledger.Endpoint != "" {
		dst.Ledger.Endpoint = src.Ledger.Endpoint
	}
	if src.Ledger.DialTimeout > 0 {
		dst.Ledger.DialTimeout = src.Ledger.DialTimeout
	}
	if src.Ledger.RequestTimeout > 0 {
		dst.Ledger.RequestTimeout = src.Ledger.RequestTimeout
	}
	if src.Ledger.ValidationTimeout > 0 {
		dst.Ledger.ValidationTimeout = src.Ledger.ValidationTimeout
	}
	if src.Ledger.PollInterval > 0 {
		dst.Ledger.PollInterval = src.Ledger.PollInterval
	}
	if src.Faucet.URL != "" {
		dst.FaucetURL = src.Faucet.URL
	}
	if src.RateLimit.Enabled != nil {
		dst.RateLimit.Enabled = *src.RateLimit.Enabled
	}
	if src.RateLimit.RPS > 0 {
		dst.RateLimit.RPS = src.RateLimit.RPS
	}
	if src.RateLimit.Burst > 0 {
		dst.RateLimit.Burst = src.RateLimit.Burst
	}
	if src.CORS.AllowedOrigins != nil {
		dst.AllowedOrigins = src.CORS.AllowedOrigins
	}
}

var errInvalidEnv = errors.New("invalid environment value")

// ApplyEnvOverrides applies the environment on top of cfg. A malformed value
// is an error rather than a silent fallback.
func ApplyEnvOverrides(cfg *Config) error {
	if v := env(envGatewayEnv); v != "" {
		cfg.Env = v
		if isTestEnv(v) {
			cfg.RateLimit.Enabled = false
		}
	}
	if v := env(envEndpoint); v != "" {
		cfg.Ledger.Endpoint = v
	}
	if v := env(envFaucetURL); v != "" {
		cfg.FaucetURL = v
	}
	if v := env(envRPCAddr); v != "" {
		cfg.RPCAddr = v
	}
	if v := env(envRateLimitEnabled); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", errInvalidEnv, envRateLimitEnabled, v)
		}
		cfg.RateLimit.Enabled = enabled
	}
	if v := env(envRateLimitRPS); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil || rps <= 0 {
			return fmt.Errorf("%w: %s=%q", errInvalidEnv, envRateLimitRPS, v)
		}
		cfg.RateLimit.RPS = rps
	}
	if v := env(envRateLimitBurst); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil || burst <= 0 {
			return fmt.Errorf("%w: %s=%q", errInvalidEnv, envRateLimitBurst, v)
		}
		cfg.RateLimit.Burst = burst
	}
	if v := env(envValidationTimeout); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil || timeout <= 0 {
			return fmt.Errorf("%w: %s=%q", errInvalidEnv, envValidationTimeout, v)
		}
		cfg.Ledger.ValidationTimeout = timeout
	}
	if v := env(envAllowedOrigins); v != "" {
		origins := make([]string, 0)
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
		cfg.AllowedOrigins = origins
	}
	return nil
}

func env(name string) string {
	return strings.TrimSpace(os.Getenv(name))
}

func isTestEnv(v string) bool {
	switch strings.ToLower(v) {
	case "test", "testing":
		return true
	default:
		return false
	}
}
