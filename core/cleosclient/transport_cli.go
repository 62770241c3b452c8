package cleosclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/trufnetwork/abiproxy-go/core/logging"
	"github.com/trufnetwork/abiproxy-go/core/types"
	"go.uber.org/zap"
)

// CommandRunner runs the client binary and returns its standard output.
// A nonzero exit must be reported as an error.
type CommandRunner func(ctx context.Context, binary string, args ...string) ([]byte, error)

// CommandError is returned when the client binary exits with an error. Output holds
// what the client printed, which usually contains the node's error message.
type CommandError struct {
	Args     []string
	ExitCode int
	Output   string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command `%s` failed with exit code %d: %s", strings.Join(e.Args, " "), e.ExitCode, e.Output)
}

// CLITransportOptions configures a CLITransport.
type CLITransportOptions struct {
	// Binary is the client executable, e.g. "cleos"
	Binary string `validate:"required"`
	// URL of the node API, passed as --url when set
	URL string
	// WalletURL is passed as --wallet-url when set, e.g. "unix:///path/keosd.sock"
	WalletURL string
	// ExtraArgs are prepended to every subcommand
	ExtraArgs []string
	// Timeout bounds one client invocation; zero means no limit
	Timeout time.Duration `validate:"gte=0"`
	Logger  *zap.Logger
	Runner  CommandRunner
}

// CLITransport implements types.Transport by running the command line client of the
// node, the same way a tester would from a shell:
//
//	cleos [--url U] [--wallet-url W] get abi <target>
//	cleos [--url U] [--wallet-url W] push action <target> <action> '<json>' --force-unique -p <signer> --json
//	cleos [--url U] [--wallet-url W] get table <target> <scope> <table> [--index N] [--lower L] ...
//
// Arguments are passed to the process directly, so no shell quoting is involved.
type CLITransport struct {
	binary    string
	url       string
	walletURL string
	extraArgs []string
	timeout   time.Duration
	run       CommandRunner
	logger    *zap.Logger
}

// Verify CLITransport implements Transport interface at compile time
var _ types.Transport = (*CLITransport)(nil)

// NewCLITransport creates a transport running opts.Binary.
func NewCLITransport(opts CLITransportOptions) (*CLITransport, error) {
	if err := validator.New().Struct(opts); err != nil {
		return nil, errors.Wrap(err, "invalid cli transport options")
	}

	t := &CLITransport{
		binary:    opts.Binary,
		url:       opts.URL,
		walletURL: opts.WalletURL,
		extraArgs: append([]string(nil), opts.ExtraArgs...),
		timeout:   opts.Timeout,
		run:       opts.Runner,
		logger:    opts.Logger,
	}
	if t.run == nil {
		t.run = execRunner
	}
	if t.logger == nil {
		t.logger = logging.Logger
	}
	return t, nil
}

func (t *CLITransport) FetchSchema(ctx context.Context, target string) (json.RawMessage, error) {
	return t.exec(ctx, "get", "abi", target)
}

func (t *CLITransport) InvokeAction(ctx context.Context, target string, action string, params types.ActionParams, signer string) (json.RawMessage, error) {
	data, err := json.Marshal(params)
	if err != nil {
		return nil, errors.Wrapf(err, "marshal parameters of %s::%s", target, action)
	}
	return t.exec(ctx, "push", "action", target, action, string(data), "--force-unique", "-p", signer, "--json")
}

func (t *CLITransport) QueryTable(ctx context.Context, target string, req types.QueryRequest) (json.RawMessage, error) {
	return t.exec(ctx, TableArgs(target, req)...)
}

// TableArgs renders the get table subcommand for req.
func TableArgs(target string, req types.QueryRequest) []string {
	args := []string{"get", "table", target, req.Scope, req.Table}
	if req.Index > 1 {
		args = append(args, "--index", strconv.Itoa(req.Index))
	}
	if req.Lower != "" {
		args = append(args, "--lower", req.Lower)
	}
	if req.Upper != "" {
		args = append(args, "--upper", req.Upper)
	}
	if req.Limit > 0 {
		args = append(args, "--limit", strconv.Itoa(req.Limit))
	}
	if req.KeyType != "" {
		args = append(args, "--key-type", req.KeyType)
	}
	if req.EncodeType != "" {
		args = append(args, "--encode-type", req.EncodeType)
	}
	if req.Binary {
		args = append(args, "--binary")
	}
	if req.Reverse {
		args = append(args, "--reverse")
	}
	if req.ShowPayer {
		args = append(args, "--show-payer")
	}
	if req.TimeLimit > 0 {
		args = append(args, "--time-limit", strconv.Itoa(req.TimeLimit))
	}
	return args
}

func (t *CLITransport) globalArgs() []string {
	var args []string
	if t.url != "" {
		args = append(args, "--url", t.url)
	}
	if t.walletURL != "" {
		args = append(args, "--wallet-url", t.walletURL)
	}
	return append(args, t.extraArgs...)
}

func (t *CLITransport) exec(ctx context.Context, sub ...string) (json.RawMessage, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	args := append(t.globalArgs(), sub...)
	t.logger.Debug("run client command", zap.String("binary", t.binary), zap.Strings("args", args))

	out, err := t.run(ctx, t.binary, args...)
	if err != nil {
		t.logger.Debug("client command failed", zap.Strings("args", args), zap.Error(err))
		return nil, err
	}
	return json.RawMessage(bytes.TrimSpace(out)), nil
}

func execRunner(ctx context.Context, binary string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err == nil {
		return out, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		output := strings.TrimSpace(stderr.String())
		if output == "" {
			output = strings.TrimSpace(string(out))
		}
		return nil, &CommandError{
			Args:     append([]string{binary}, args...),
			ExitCode: exitErr.ExitCode(),
			Output:   output,
		}
	}
	return nil, errors.Wrapf(err, "run %s", binary)
}
