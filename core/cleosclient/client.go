package cleosclient

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/trufnetwork/abiproxy-go/core/logging"
	"github.com/trufnetwork/abiproxy-go/core/proxy"
	"github.com/trufnetwork/abiproxy-go/core/types"
	"go.uber.org/zap"
)

const DefaultBinary = "cleos"

type Client struct {
	Transport types.Transport `validate:"required"`
	MaxPages  int             `validate:"gte=0"`
	logger    *zap.Logger
	cliOpts   *CLITransportOptions
}

type Option func(*Client)

// NewClient builds a client. Unless WithTransport is given, actions and queries are run
// through the command line client configured by the other options.
func NewClient(ctx context.Context, options ...Option) (*Client, error) {
	c := &Client{
		cliOpts: &CLITransportOptions{Binary: DefaultBinary},
	}
	for _, option := range options {
		option(c)
	}
	if c.logger == nil {
		c.logger = logging.Logger
	}

	if c.Transport == nil {
		c.cliOpts.Logger = c.logger
		transport, err := NewCLITransport(*c.cliOpts)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		c.Transport = transport
	}

	if err := c.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}
	return c, nil
}

func (c *Client) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// WithTransport replaces the command line transport, e.g. with an HTTP implementation or a mock.
func WithTransport(transport types.Transport) Option {
	return func(c *Client) {
		c.Transport = transport
	}
}

func WithBinary(binary string) Option {
	return func(c *Client) {
		c.cliOpts.Binary = binary
	}
}

func WithURL(url string) Option {
	return func(c *Client) {
		c.cliOpts.URL = url
	}
}

func WithWalletURL(walletURL string) Option {
	return func(c *Client) {
		c.cliOpts.WalletURL = walletURL
	}
}

func WithExtraArgs(args ...string) Option {
	return func(c *Client) {
		c.cliOpts.ExtraArgs = append(c.cliOpts.ExtraArgs, args...)
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.cliOpts.Timeout = timeout
	}
}

func WithRunner(runner CommandRunner) Option {
	return func(c *Client) {
		c.cliOpts.Runner = runner
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMaxPages sets the page ceiling of the proxies this client loads.
func WithMaxPages(n int) Option {
	return func(c *Client) {
		c.MaxPages = n
	}
}

// LoadProxy fetches the interface schema of target and returns its generated proxy.
func (c *Client) LoadProxy(ctx context.Context, target string) (*proxy.Proxy, error) {
	opts := []proxy.Option{proxy.WithLogger(c.logger)}
	if c.MaxPages > 0 {
		opts = append(opts, proxy.WithMaxPages(c.MaxPages))
	}
	p, err := proxy.CreateProxy(ctx, c.Transport, target, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "load proxy for %s", target)
	}
	return p, nil
}
