package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netprune/pkg/aggregate"
	netio "github.com/matzehuels/netprune/pkg/io"
	"github.com/matzehuels/netprune/pkg/network"
	"github.com/matzehuels/netprune/pkg/policy"
)

// policyCommand creates the policy command.
func (c *CLI) policyCommand() *cobra.Command {
	var rules, rulesFile string
	var listFuncs bool

	cmd := &cobra.Command{
		Use:   "policy [network]",
		Short: "Show the aggregation function of every attribute",
		Long: `Show the aggregation function of every attribute.

The policy starts from built-in defaults, assigns avg to every extra
attribute declared by the network, and then applies the rules in order.
Without a network only the standard attributes are listed.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeNetworkFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listFuncs {
				for _, name := range aggregate.Names() {
					fmt.Println(name)
				}
				return nil
			}
			if rulesFile != "" {
				text, err := readRules(rulesFile)
				if err != nil {
					return fmt.Errorf("read rules: %w", err)
				}
				rules = text
			} else if !cmd.Flags().Changed("rules") {
				rules = policy.DefaultRules
			}

			net := network.New()
			if len(args) == 1 {
				var err error
				if net, err = netio.Import(args[0]); err != nil {
					return err
				}
			}
			pol, err := policy.Compile(net, rules)
			if err != nil {
				return err
			}
			fmt.Println(policyTable(pol.Entries()))
			printDetail("%d rules applied", len(pol.Rules()))
			return nil
		},
	}

	cmd.Flags().StringVar(&rules, "rules", "", "aggregation rules (default: the stock rule set)")
	cmd.Flags().StringVar(&rulesFile, "rules-file", "", "read aggregation rules from a file")
	cmd.Flags().BoolVar(&listFuncs, "functions", false, "list the available aggregation functions")

	return cmd
}
