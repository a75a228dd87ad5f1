package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netprune/pkg/pipeline"
	"github.com/matzehuels/netprune/pkg/simplify"
)

// simplifyFlags holds flags that are not pipeline options.
type simplifyFlags struct {
	config      string
	rulesFile   string
	formats     string
	reportPath  string
	noCache     bool
	interactive bool
}

// simplifyCommand creates the simplify command.
func (c *CLI) simplifyCommand() *cobra.Command {
	var flags simplifyFlags
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:   "simplify [network]",
		Short: "Remove degree-2 nodes from a network",
		Long: `Remove degree-2 nodes from a network.

A node is removed when it joins exactly two neighbours with two links (one
way) or four links (two way), passes the node filter, and is not a stop or
centroid-connected node unless the stop and connector filters allow it. The
links on either side are merged; transit lines over the node are spliced.

Attribute values of merged links and segments are combined by aggregation
rules, "attribute: function" pairs separated by commas or newlines:

  netprune simplify net.json --rules "length: sum, vdf: force, ul2: avg"

Run 'netprune policy' to see the function used for every attribute.

Options may also come from a TOML file (--config); flags given on the
command line take precedence. Results are cached locally, keyed by the
network content and options.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeNetworkFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			merged, err := mergeConfig(cmd, flags, opts, args)
			if err != nil {
				return err
			}
			return c.runSimplify(cmd.Context(), merged, flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.Output, "output", "o", "", "output network file (default: <input>.simplified.<ext>)")
	f.StringVarP(&flags.config, "config", "c", "", "TOML file with pipeline options")
	f.StringVar(&opts.NodeFilter, "node-filter", "", "node attribute that must be nonzero for removal (none: all nodes)")
	f.StringVar(&opts.StopFilter, "stop-filter", "", "node attribute that allows removing a stop (none: keep stops)")
	f.StringVar(&opts.ConnectorFilter, "connector-filter", "", "link attribute marking removable centroid connectors (none: keep)")
	f.StringVar(&opts.Rules, "rules", "", "aggregation rules (default: the stock rule set)")
	f.StringVar(&flags.rulesFile, "rules-file", "", "read aggregation rules from a file")
	f.StringVarP(&flags.formats, "render", "r", "", "also render the result: dot, svg, png (comma-separated)")
	f.BoolVar(&opts.Geographic, "geographic", false, "place rendered nodes at their coordinates")
	f.StringVar(&flags.reportPath, "report", "", "write the run report as JSON")
	f.BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	f.BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")
	f.BoolVar(&opts.DryRun, "dry-run", false, "simplify without writing files")
	f.BoolVarP(&flags.interactive, "interactive", "i", false, "browse kept nodes after the run")

	_ = cmd.RegisterFlagCompletionFunc("render", completeFormats)

	return cmd
}

// mergeConfig combines the config file, if any, with command-line values.
// A flag set on the command line always wins over the file.
func mergeConfig(cmd *cobra.Command, flags simplifyFlags, opts pipeline.Options, args []string) (pipeline.Options, error) {
	if len(args) == 1 {
		opts.Input = args[0]
	}
	if flags.rulesFile != "" {
		if cmd.Flags().Changed("rules") {
			return opts, fmt.Errorf("--rules and --rules-file are mutually exclusive")
		}
		text, err := readRules(flags.rulesFile)
		if err != nil {
			return opts, fmt.Errorf("read rules: %w", err)
		}
		opts.Rules = text
	}
	if flags.formats != "" {
		opts.Render = parseFormats(flags.formats)
	}
	if flags.config == "" {
		return opts, nil
	}

	base, err := pipeline.LoadOptions(flags.config)
	if err != nil {
		return opts, err
	}
	changed := cmd.Flags().Changed
	if opts.Input != "" {
		base.Input = opts.Input
	}
	override := map[string]func(){
		"output":           func() { base.Output = opts.Output },
		"node-filter":      func() { base.NodeFilter = opts.NodeFilter },
		"stop-filter":      func() { base.StopFilter = opts.StopFilter },
		"connector-filter": func() { base.ConnectorFilter = opts.ConnectorFilter },
		"rules":            func() { base.Rules = opts.Rules },
		"rules-file":       func() { base.Rules = opts.Rules },
		"render":           func() { base.Render = opts.Render },
		"geographic":       func() { base.Geographic = opts.Geographic },
		"refresh":          func() { base.Refresh = opts.Refresh },
		"dry-run":          func() { base.DryRun = opts.DryRun },
	}
	for name, apply := range override {
		if changed(name) {
			apply()
		}
	}
	return base, nil
}

// runSimplify executes the pipeline and prints the outcome.
func (c *CLI) runSimplify(ctx context.Context, opts pipeline.Options, flags simplifyFlags) error {
	if opts.Input == "" {
		return fmt.Errorf("no input network: pass a file or set input in --config")
	}
	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = loggerFromContext(ctx)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Simplifying %s...", opts.Input))
	opts.Progress = spinner.Progress("Merging nodes")
	spinner.Start()

	st := startStage(opts.Logger)
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Simplification failed")
		return err
	}
	spinner.Stop()

	rep := res.Report
	st.done("simplify finished", "deleted", rep.Deleted, "kept", len(rep.Skipped),
		"passes", rep.Passes, "cached", res.CacheHit)
	printSuccess("Removed %s of %d candidate nodes",
		StyleNumber.Render(fmt.Sprint(rep.Deleted)), rep.Candidates)
	fmt.Println(formatStats(res.Stats.NodesBefore, res.Stats.NodesAfter,
		res.Stats.LinksBefore, res.Stats.LinksAfter, res.CacheHit))
	if rep.ConnectorsRemoved > 0 {
		printDetail("%d centroid connectors removed", rep.ConnectorsRemoved)
	}

	if flags.reportPath != "" {
		if err := writeReport(flags.reportPath, opts.Input, res); err != nil {
			return err
		}
		printFile(flags.reportPath)
	}
	for _, path := range res.Written {
		printFile(path)
	}

	if len(rep.Skipped) > 0 {
		if flags.interactive {
			return runReport(rep)
		}
		printWarning("%d candidate nodes were kept", len(rep.Skipped))
		fmt.Println(skipTable(rep.Skipped))
	}

	if !opts.DryRun && len(opts.Render) == 0 && len(res.Written) > 0 {
		printNextStep("Draw the result", fmt.Sprintf("%s render %s -f svg", appName, res.Written[0]))
	}
	return nil
}

// writeReport stores the run report as indented JSON.
func writeReport(path, input string, res *pipeline.Result) error {
	data, err := json.MarshalIndent(struct {
		Input     string           `json:"input"`
		InputHash string           `json:"input_hash"`
		Cached    bool             `json:"cached"`
		Report    *simplify.Result `json:"report"`
	}{input, res.InputHash, res.CacheHit, res.Report}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
