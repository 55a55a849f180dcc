package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Config contains all configuration parameters for the application.
type Config struct {
	WalletFilePath     string `envconfig:"WALLET_FILE_PATH" default:"wallet.json"`
	SolanaRPCURL       string `envconfig:"SOLANA_RPC_URL" default:"https://api.devnet.solana.com"`
	SolanaCommitment   string `envconfig:"SOLANA_COMMITMENT" default:"confirmed"`
	RPCRateLimit       int    `envconfig:"RPC_RATE_LIMIT" default:"0"` // requests per second, 0 = unlimited
	AirdropMaxAttempts int    `envconfig:"AIRDROP_MAX_ATTEMPTS" default:"2"`
	AirdropBaseDelayMS int    `envconfig:"AIRDROP_BASE_DELAY_MS" default:"1000"`
	AirdropMaxDelayMS  int    `envconfig:"AIRDROP_MAX_DELAY_MS" default:"60000"`
	LogLevel           string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat          string `envconfig:"LOG_FORMAT" default:"console"`
	Port               string `envconfig:"PORT" default:"8080"`
	BackupPassword     string `envconfig:"WALLET_BACKUP_PASSWORD"`
}

// cfg is the global configuration instance
var cfg *Config

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Init loads configuration into the global instance.
func Init() error {
	c, err := Load()
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// Validate checks value ranges envconfig cannot express
func (c *Config) Validate() error {
	switch c.SolanaCommitment {
	case "processed", "confirmed", "finalized":
	default:
		return fmt.Errorf("SOLANA_COMMITMENT must be processed, confirmed or finalized, got %q", c.SolanaCommitment)
	}
	if c.AirdropMaxAttempts < 1 {
		return errors.New("AIRDROP_MAX_ATTEMPTS must be at least 1")
	}
	if c.AirdropBaseDelayMS < 0 || c.AirdropMaxDelayMS < 0 {
		return errors.New("airdrop delays cannot be negative")
	}
	if c.RPCRateLimit < 0 {
		return errors.New("RPC_RATE_LIMIT cannot be negative")
	}
	return nil
}

// AirdropBaseDelay returns the base backoff delay
func (c *Config) AirdropBaseDelay() time.Duration {
	return time.Duration(c.AirdropBaseDelayMS) * time.Millisecond
}

// AirdropMaxDelay returns the backoff cap
func (c *Config) AirdropMaxDelay() time.Duration {
	return time.Duration(c.AirdropMaxDelayMS) * time.Millisecond
}

// ReadPassword returns WALLET_BACKUP_PASSWORD if set, otherwise prompts in the terminal
// without echoing. Caller must zero the returned slice after use.
func (c *Config) ReadPassword(prompt string) ([]byte, error) {
	if c.BackupPassword != "" {
		return []byte(c.BackupPassword), nil
	}
	return PromptForPassword(prompt)
}

// PromptForPassword reads a password from the terminal without echo.
// Caller must zero the returned slice after use.
func PromptForPassword(prompt string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal: set WALLET_BACKUP_PASSWORD or run interactively")
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("password cannot be empty")
	}
	return raw, nil
}
