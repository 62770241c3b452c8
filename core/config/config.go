package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Config is the configuration of the abiproxy command line tool.
type Config struct {
	Client  ClientConfig  `toml:"client"`
	Proxy   ProxyConfig   `toml:"proxy"`
	Logging LoggingConfig `toml:"logging"`
}

// ClientConfig describes how the node's command line client is run.
type ClientConfig struct {
	// Binary is the client executable name or path.
	Binary string `toml:"binary"`

	// URL is the node API endpoint, passed as --url.
	URL string `toml:"url"`

	// WalletURL is the wallet daemon endpoint, passed as --wallet-url.
	WalletURL string `toml:"wallet_url"`

	// ExtraArgs are passed to the client before every subcommand.
	ExtraArgs []string `toml:"extra_args"`

	// Timeout bounds a single client invocation; zero disables it.
	Timeout Duration `toml:"timeout"`
}

// ProxyConfig holds proxy defaults.
type ProxyConfig struct {
	// Target is the contract account used when none is given on the command line.
	Target string `toml:"target"`

	// Signer is the identity actions are pushed with; empty means the target itself.
	Signer string `toml:"signer"`

	// MaxPages is the page ceiling of one table function call.
	MaxPages int `toml:"max_pages"`

	// FieldOrders maps struct names to the positional order of their fields.
	FieldOrders map[string][]string `toml:"field_orders"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Duration wraps time.Duration for TOML string values such as "30s".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", string(text))
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// DefaultConfig returns a configuration for a local node with a local wallet.
func DefaultConfig() *Config {
	return &Config{
		Client: ClientConfig{
			Binary:  "cleos",
			URL:     "http://127.0.0.1:8888",
			Timeout: Duration(2 * time.Minute),
		},
		Proxy: ProxyConfig{
			MaxPages: 1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from a TOML file.
// Missing values are filled with defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config file")
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parsing config file")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating config")
	}

	return cfg, nil
}

// Validation errors.
var (
	ErrEmptyBinary      = errors.New("client binary cannot be empty")
	ErrNegativeTimeout  = errors.New("client timeout must be non-negative")
	ErrInvalidMaxPages  = errors.New("proxy max_pages must be positive")
	ErrEmptyFieldOrder  = errors.New("proxy field_orders entries cannot be empty")
	ErrInvalidLogLevel  = errors.New("log level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat = errors.New("log format must be 'console' or 'json'")
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Client.Binary == "" {
		return ErrEmptyBinary
	}
	if c.Client.Timeout < 0 {
		return ErrNegativeTimeout
	}
	if c.Proxy.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}
	for name, fields := range c.Proxy.FieldOrders {
		if len(fields) == 0 {
			return errors.Wrapf(ErrEmptyFieldOrder, "struct '%s'", name)
		}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return ErrInvalidLogFormat
	}
	return nil
}

// WriteConfigFile writes cfg as TOML to path.
func WriteConfigFile(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating config file")
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return errors.Wrap(err, "encoding config")
	}
	return nil
}
