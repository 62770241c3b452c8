package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"
)

var pushDryRun bool

var pushCmd = &cobra.Command{
	Use:   "push <action> [params...]",
	Short: "Push an action",
	Long: `Push an action with its parameters in ABI field order.

Every parameter is read as JSON when it parses, and as a plain string otherwise.
Struct-typed parameters are given as a JSON object, or as a JSON array once the
struct's field order was declared with --field-order.

Example:
  abiproxy push -t meta.hg3 setitem 7 sword
  abiproxy push -t meta.hg3 -p alice move alice '{"x": 1, "y": 2}'
  abiproxy push -t meta.hg3 --field-order position=x,y move alice '[1, 2]'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPush,
}

func init() {
	pushCmd.Flags().BoolVar(&pushDryRun, "dry-run", false, "print the parameter object instead of pushing it")
}

func runPush(cmd *cobra.Command, args []string) error {
	p, err := loadProxy(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	action, params := args[0], parseArgs(args[1:])
	if pushDryRun {
		built, err := p.BuildParams(action, params...)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), built)
	}

	result, err := p.Invoke(cmd.Context(), action, params...)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}

// parseArgs decodes every argument as JSON, keeping numbers exact, and falls back to the
// raw string.
func parseArgs(args []string) []any {
	out := make([]any, len(args))
	for i, arg := range args {
		out[i] = parseArg(arg)
	}
	return out
}

func parseArg(arg string) any {
	dec := json.NewDecoder(strings.NewReader(arg))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return arg
	}
	return v
}
