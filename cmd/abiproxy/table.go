package main

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/trufnetwork/abiproxy-go/core/proxy"
	"github.com/trufnetwork/abiproxy-go/core/types"
)

var (
	tableOptions string
	tableRows    bool
)

var tableCmd = &cobra.Command{
	Use:   "table <function> [lower [upper [limit [scope [page-limit [binary [reverse [show-payer [time-limit]]]]]]]]]",
	Short: "Read a table through one of its indexes",
	Long: `Read every row of a table function, following next_key until the node reports
no more rows or the page limit is reached. The function is the table name for
the primary index and table_N for index N.

A single lower bound reads exactly the row with that key. The --options object
accepts lower, upper, limit, scope, pageLimit, binary, reverse, showPayer,
timeLimit, keyType and encodeType and overrides positional values.

Example:
  abiproxy table -t meta.hg3 items
  abiproxy table -t meta.hg3 items 7
  abiproxy table -t meta.hg3 players_2 --options '{"keyType": "name", "lower": "alice", "limit": 10}'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTable,
}

func init() {
	tableCmd.Flags().StringVar(&tableOptions, "options", "", "options object as JSON")
	tableCmd.Flags().BoolVar(&tableRows, "rows", false, "print only the rows")
}

func runTable(cmd *cobra.Command, args []string) error {
	p, err := loadProxy(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	params := make([]any, 0, len(args))
	for _, arg := range args[1:] {
		params = append(params, arg)
	}
	if tableOptions != "" {
		var opts map[string]any
		dec := json.NewDecoder(strings.NewReader(tableOptions))
		dec.UseNumber()
		if err := dec.Decode(&opts); err != nil {
			return errors.Wrap(err, "--options must be a JSON object")
		}
		params = append(params, types.Named(opts))
	}

	result, err := p.Query(cmd.Context(), args[0], params...)
	if err != nil {
		return err
	}
	if result == nil {
		// key configuration only
		table, index := resolveTableFunction(p, args[0])
		return printJSON(cmd.OutOrStdout(), p.IndexConfig(table, index))
	}
	if tableRows {
		return printJSON(cmd.OutOrStdout(), result.Rows)
	}
	return printJSON(cmd.OutOrStdout(), result)
}

func resolveTableFunction(p *proxy.Proxy, function string) (string, int) {
	for _, t := range p.Schema().Tables {
		for index := 1; index <= proxy.MaxIndex; index++ {
			if proxy.TableFunctionName(t.Name, index) == function {
				return t.Name, index
			}
		}
	}
	return function, 1
}
