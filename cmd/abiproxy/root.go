package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/trufnetwork/abiproxy-go/core/cleosclient"
	"github.com/trufnetwork/abiproxy-go/core/config"
	"github.com/trufnetwork/abiproxy-go/core/logging"
	"github.com/trufnetwork/abiproxy-go/core/proxy"
	"go.uber.org/zap"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	GitCommit = "unknown"

	// Global flags
	cfgFile     string
	verbose     bool
	target      string
	signer      string
	fieldOrders []string

	// clientOptions turns the loaded configuration into client options; tests swap the transport here.
	clientOptions = cleosclient.OptionsFromConfig
)

var rootCmd = &cobra.Command{
	Use:   "abiproxy",
	Short: "Call contract actions and read contract tables through their ABI",
	Long: `abiproxy loads the ABI of a contract account and exposes one command per
action and one per (table, index) pair, validating arguments before anything is
sent to the node.

Example:
  abiproxy abi -t meta.hg3
  abiproxy push -t meta.hg3 setitem 7 sword
  abiproxy table -t meta.hg3 players_2 alice --options '{"limit": 10}'`,
	Version:      fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "abiproxy.toml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&target, "target", "t", "", "contract account (defaults to proxy.target in the config)")
	rootCmd.PersistentFlags().StringVarP(&signer, "signer", "p", "", "identity actions are pushed with (defaults to the target)")
	rootCmd.PersistentFlags().StringArrayVar(&fieldOrders, "field-order", nil, "positional field order of a struct, as struct=field1,field2 (repeatable)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(abiCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(tableCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "abiproxy %s\n", Version)
		fmt.Fprintf(cmd.OutOrStdout(), "  Git commit: %s\n", GitCommit)
	},
}

// loadConfig reads the config file. A missing file is only an error when --config was given.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		if cmd.Flags().Changed("config") {
			return nil, errors.Errorf("config file not found: %s", cfgFile)
		}
		return config.DefaultConfig(), nil
	}
	return config.LoadConfig(cfgFile)
}

func setupLogger(cfg *config.Config) (*zap.Logger, error) {
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	logger, err := logging.NewLogger(level, cfg.Logging.Format)
	if err != nil {
		return nil, err
	}
	logging.SetLogger(logger)
	return logger, nil
}

// loadProxy builds the proxy of the selected target and applies the signer and field
// orders from the config file and the command line, the command line winning.
func loadProxy(ctx context.Context, cmd *cobra.Command) (*proxy.Proxy, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := setupLogger(cfg)
	if err != nil {
		return nil, err
	}

	account := target
	if account == "" {
		account = cfg.Proxy.Target
	}
	if account == "" {
		return nil, errors.New("no target: use --target or set proxy.target in the config")
	}

	opts := append(clientOptions(cfg), cleosclient.WithLogger(logger))
	client, err := cleosclient.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	p, err := client.LoadProxy(ctx, account)
	if err != nil {
		return nil, err
	}

	for name, fields := range cfg.Proxy.FieldOrders {
		if err := p.DeclareFieldOrder(name, fields...); err != nil {
			return nil, errors.Wrap(err, "config proxy.field_orders")
		}
	}
	for _, entry := range fieldOrders {
		name, fields, err := parseFieldOrder(entry)
		if err != nil {
			return nil, err
		}
		if err := p.DeclareFieldOrder(name, fields...); err != nil {
			return nil, errors.Wrapf(err, "--field-order %s", entry)
		}
	}

	identity := signer
	if identity == "" {
		identity = cfg.Proxy.Signer
	}
	p.SetSigner(identity)
	return p, nil
}

// parseFieldOrder splits "struct=a,b,c".
func parseFieldOrder(entry string) (string, []string, error) {
	name, list, ok := strings.Cut(entry, "=")
	if !ok || name == "" || list == "" {
		return "", nil, errors.Errorf("invalid field order %q, expected struct=field1,field2", entry)
	}
	fields := strings.Split(list, ",")
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return strings.TrimSpace(name), fields, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
