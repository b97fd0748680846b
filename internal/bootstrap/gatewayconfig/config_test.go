package gatewayconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func boolPtr(v bool) *bool { return &v }

func TestDefaultPointsAtTestnet(t *testing.T) {
	cfg := Default()
	if cfg.Ledger.Endpoint != DefaultEndpoint {
		t.Fatalf("unexpected endpoint: %q", cfg.Ledger.Endpoint)
	}
	if cfg.RPCAddr != DefaultRPCAddr {
		t.Fatalf("unexpected rpc addr: %q", cfg.RPCAddr)
	}
	if !cfg.RateLimit.Enabled {
		t.Fatal("rate limiting should be on by default")
	}
	if cfg.Ledger.ValidationTimeout <= 0 || cfg.Ledger.PollInterval <= 0 {
		t.Fatalf("ledger timeouts not defaulted: %+v", cfg.Ledger)
	}
}

func TestMergeOverridesOnlySetFields(t *testing.T) {
	cfg := Default()
	Merge(&cfg, FileConfig{
		Ledger:    FileLedger{Endpoint: "wss://example.test:51233", PollInterval: 250 * time.Millisecond},
		RateLimit: FileRateLimit{Enabled: boolPtr(false), Burst: 3},
	})

	if cfg.Ledger.Endpoint != "wss://example.test:51233" {
		t.Fatalf("endpoint not merged: %q", cfg.Ledger.Endpoint)
	}
	if cfg.Ledger.PollInterval != 250*time.Millisecond {
		t.Fatalf("poll interval not merged: %v", cfg.Ledger.PollInterval)
	}
	if cfg.RateLimit.Enabled {
		t.Fatal("explicit false should disable rate limiting")
	}
	if cfg.RateLimit.Burst != 3 {
		t.Fatalf("burst not merged: %d", cfg.RateLimit.Burst)
	}
	if cfg.RPCAddr != DefaultRPCAddr || cfg.FaucetURL == "" {
		t.Fatalf("unset fields must keep defaults: %+v", cfg)
	}
}

func TestLoadFromPathReadsYAML(t *testing.T) {
	path := writeConfig(t, `
env: dev
rpcAddr: 0.0.0.0:9000
ledger:
  endpoint: wss://s.devnet.rippletest.net:51233
  validationTimeout: 45s
faucet:
  url: https://faucet.devnet.rippletest.net/accounts
rateLimit:
  rps: 2.5
cors:
  allowedOrigins: ["https://app.example"]
`)
	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("env not applied: %q", cfg.Env)
	}
	if cfg.RPCAddr != "0.0.0.0:9000" {
		t.Fatalf("rpc addr: %q", cfg.RPCAddr)
	}
	if cfg.Ledger.Endpoint != "wss://s.devnet.rippletest.net:51233" {
		t.Fatalf("endpoint: %q", cfg.Ledger.Endpoint)
	}
	if cfg.Ledger.ValidationTimeout != 45*time.Second {
		t.Fatalf("validation timeout: %v", cfg.Ledger.ValidationTimeout)
	}
	if cfg.FaucetURL != "https://faucet.devnet.rippletest.net/accounts" {
		t.Fatalf("faucet url: %q", cfg.FaucetURL)
	}
	if cfg.RateLimit.RPS != 2.5 {
		t.Fatalf("rps: %v", cfg.RateLimit.RPS)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "https://app.example" {
		t.Fatalf("origins: %v", cfg.AllowedOrigins)
	}
}

func TestLoadFromPathFailsForMissingExplicitFile(t *testing.T) {
	if _, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoadFromPathRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "ledger: [unclosed")
	if _, err := LoadFromPath(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	path := writeConfig(t, "ledger:\n  endpoint: wss://from-file.test\n")
	t.Setenv("XRPL_ENDPOINT", " wss://from-env.test ")
	t.Setenv("XRPL_FAUCET_URL", "https://faucet.env.test/accounts")
	t.Setenv("GATEWAY_RATE_LIMIT_BURST", "7")
	t.Setenv("GATEWAY_VALIDATION_TIMEOUT", "12s")
	t.Setenv("GATEWAY_ALLOWED_ORIGINS", "https://a.test, ,https://b.test")

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Ledger.Endpoint != "wss://from-env.test" {
		t.Fatalf("endpoint: %q", cfg.Ledger.Endpoint)
	}
	if cfg.FaucetURL != "https://faucet.env.test/accounts" {
		t.Fatalf("faucet: %q", cfg.FaucetURL)
	}
	if cfg.RateLimit.Burst != 7 {
		t.Fatalf("burst: %d", cfg.RateLimit.Burst)
	}
	if cfg.Ledger.ValidationTimeout != 12*time.Second {
		t.Fatalf("validation timeout: %v", cfg.Ledger.ValidationTimeout)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.test" {
		t.Fatalf("origins: %v", cfg.AllowedOrigins)
	}
}

func TestTestEnvDisablesRateLimit(t *testing.T) {
	cfg := Default()
	t.Setenv("GATEWAY_ENV", "test")
	if err := ApplyEnvOverrides(&cfg); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cfg.RateLimit.Enabled {
		t.Fatal("test env should disable rate limiting")
	}

	t.Setenv("GATEWAY_RATE_LIMIT_ENABLED", "true")
	if err := ApplyEnvOverrides(&cfg); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !cfg.RateLimit.Enabled {
		t.Fatal("explicit flag should re-enable rate limiting")
	}
}

func TestMalformedEnvValuesAreRejected(t *testing.T) {
	cases := map[string]string{
		"GATEWAY_RATE_LIMIT_ENABLED": "sometimes",
		"GATEWAY_RATE_LIMIT_RPS":     "-1",
		"GATEWAY_RATE_LIMIT_BURST":   "many",
		"GATEWAY_VALIDATION_TIMEOUT": "soon",
	}
	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(name, value)
			cfg := Default()
			err := ApplyEnvOverrides(&cfg)
			if !errors.Is(err, errInvalidEnv) {
				t.Fatalf("expected errInvalidEnv, got %v", err)
			}
		})
	}
}
