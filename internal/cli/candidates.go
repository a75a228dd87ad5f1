package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	netio "github.com/matzehuels/netprune/pkg/io"
	"github.com/matzehuels/netprune/pkg/network"
	"github.com/matzehuels/netprune/pkg/simplify"
)

// filterFlags holds the candidate filters shared by several commands.
type filterFlags struct {
	node, stop, connector string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.node, "node-filter", "", "node attribute that must be nonzero for removal (none: all nodes)")
	cmd.Flags().StringVar(&f.stop, "stop-filter", "", "node attribute that allows removing a stop (none: keep stops)")
	cmd.Flags().StringVar(&f.connector, "connector-filter", "", "link attribute marking removable centroid connectors (none: keep)")
}

func (f *filterFlags) options() simplify.Options {
	return simplify.Options{NodeFilter: f.node, StopFilter: f.stop, ConnectorFilter: f.connector}
}

// candidatesCommand creates the candidates command.
func (c *CLI) candidatesCommand() *cobra.Command {
	var filters filterFlags
	var quiet bool

	cmd := &cobra.Command{
		Use:   "candidates [network]",
		Short: "List nodes that simplify would try to remove",
		Long: `List nodes that simplify would try to remove.

Candidates are selected exactly as by 'simplify', before any merge. A
candidate can still be kept when its links cannot be merged, for example
because of a conflicting attribute or a transit line ending at the node.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeNetworkFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCandidates(cmd.Context(), args[0], filters, quiet)
		},
	}

	filters.register(cmd)
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print node numbers only")

	return cmd
}

func (c *CLI) runCandidates(ctx context.Context, input string, filters filterFlags, quiet bool) error {
	logger := loggerFromContext(ctx)

	st := startStage(logger)
	net, err := netio.Import(input)
	if err != nil {
		return err
	}
	logLoaded(st, input, net)

	st = startStage(logger)
	candidates, err := selectCandidates(net, filters.options())
	if err != nil {
		return err
	}
	st.done("selected candidates", "candidates", len(candidates), "nodes", net.NodeCount())

	if quiet {
		for _, nd := range candidates {
			fmt.Println(nd.Number)
		}
		return nil
	}

	if len(candidates) == 0 {
		printInfo("No candidate nodes")
		return nil
	}
	printSuccess("%s candidate nodes", StyleNumber.Render(fmt.Sprint(len(candidates))))
	fmt.Println(candidateTable(candidateRows(net, candidates)))
	return nil
}

// selectCandidates runs candidate selection with the filters of opts.
func selectCandidates(net *network.Network, opts simplify.Options) ([]*network.Node, error) {
	node, stop, conn := opts.Filters()
	return simplify.SelectCandidates(net, node, stop, conn)
}

// candidateRows describes each candidate by its neighbours and link count.
// Connector links to centroids are counted but centroids are not listed.
func candidateRows(net *network.Network, candidates []*network.Node) []candidateRow {
	rows := make([]candidateRow, 0, len(candidates))
	for _, nd := range candidates {
		var neighbours []int
		add := func(n int) {
			if other, ok := net.Node(n); ok && !other.Centroid && !slices.Contains(neighbours, n) {
				neighbours = append(neighbours, n)
			}
		}
		for _, l := range net.OutgoingLinks(nd.Number) {
			add(l.J)
		}
		for _, l := range net.IncomingLinks(nd.Number) {
			add(l.I)
		}
		slices.Sort(neighbours)
		rows = append(rows, candidateRow{
			node:       nd.Number,
			neighbours: neighbours,
			links:      net.Degree(nd.Number),
			stop:       nd.IsStop(),
		})
	}
	return rows
}
