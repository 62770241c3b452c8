package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/trufnetwork/abiproxy-go/core/config"
)

var (
	initURL      string
	initOverride bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Write a config file with default values to the --config path.

Example:
  abiproxy init --url http://127.0.0.1:8888 -t meta.hg3`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initURL, "url", "", "node API endpoint")
	initCmd.Flags().BoolVar(&initOverride, "force", false, "override an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(cfgFile); err == nil && !initOverride {
		return errors.Errorf("%s already exists; use --force to override", cfgFile)
	}

	cfg := config.DefaultConfig()
	if initURL != "" {
		cfg.Client.URL = initURL
	}
	cfg.Proxy.Target = target
	cfg.Proxy.Signer = signer
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := config.WriteConfigFile(cfgFile, cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", cfgFile)
	return nil
}
