package cleosclient

import (
	"github.com/trufnetwork/abiproxy-go/core/config"
)

// OptionsFromConfig translates the [client] and [proxy] sections of cfg into client options.
//
// Example usage:
//
//	cfg, err := config.LoadConfig("abiproxy.toml")
//	if err != nil {
//	    return err
//	}
//	client, err := cleosclient.NewClient(ctx, cleosclient.OptionsFromConfig(cfg)...)
func OptionsFromConfig(cfg *config.Config) []Option {
	opts := []Option{
		WithBinary(cfg.Client.Binary),
		WithTimeout(cfg.Client.Timeout.Duration()),
		WithMaxPages(cfg.Proxy.MaxPages),
	}
	if cfg.Client.URL != "" {
		opts = append(opts, WithURL(cfg.Client.URL))
	}
	if cfg.Client.WalletURL != "" {
		opts = append(opts, WithWalletURL(cfg.Client.WalletURL))
	}
	if len(cfg.Client.ExtraArgs) > 0 {
		opts = append(opts, WithExtraArgs(cfg.Client.ExtraArgs...))
	}
	return opts
}
