package main

import (
	"github.com/spf13/cobra"
	"github.com/trufnetwork/abiproxy-go/core/proxy"
)

var abiCmd = &cobra.Command{
	Use:     "abi",
	Aliases: []string{"actions"},
	Short:   "List the functions generated for the target",
	Long: `Load the ABI of the target and print every action with its parameters and
every table function.

Example:
  abiproxy abi -t meta.hg3`,
	Args: cobra.NoArgs,
	RunE: runABI,
}

// ActionSummary describes one generated action function.
type ActionSummary struct {
	Name   string   `json:"name"`
	Params []string `json:"params"`
}

type ABISummary struct {
	Target  string          `json:"target"`
	Signer  string          `json:"signer"`
	Actions []ActionSummary `json:"actions"`
	Tables  []string        `json:"tables"`
}

func runABI(cmd *cobra.Command, args []string) error {
	p, err := loadProxy(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), summarize(p))
}

func summarize(p *proxy.Proxy) ABISummary {
	s := p.Schema()
	summary := ABISummary{
		Target: p.Target(),
		Signer: p.Signer(),
		Tables: p.TableFunctions(),
	}
	for _, name := range p.ActionNames() {
		action := ActionSummary{Name: name, Params: []string{}}
		if desc, ok := s.Action(name); ok {
			if st, ok := s.Struct(desc.Type); ok {
				for _, f := range st.Fields {
					action.Params = append(action.Params, f.Name+" "+f.Type)
				}
			}
		}
		summary.Actions = append(summary.Actions, action)
	}
	return summary
}
