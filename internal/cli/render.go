package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	netio "github.com/matzehuels/netprune/pkg/io"
	"github.com/matzehuels/netprune/pkg/pipeline"
	"github.com/matzehuels/netprune/pkg/render/nodelink"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string // base output path, extension replaced per format
	formats    []string
	geographic bool
	scale      float64
	detailed   bool
	candidates bool // highlight removal candidates
	noCache    bool
	refresh    bool
	filters    filterFlags
}

// renderCommand creates the render command for drawing a network.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: 1}

	cmd := &cobra.Command{
		Use:   "render [network]",
		Short: "Draw a network as DOT, SVG or PNG",
		Long: `Draw a network as DOT, SVG or PNG.

Centroids are drawn as boxes, stops as double circles and links used by
transit lines in blue. With --candidates the nodes simplify would try to
remove are highlighted, using the same filters as simplify.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeNetworkFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if len(opts.formats) == 0 {
				opts.formats = []string{pipeline.FormatSVG}
			}
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path (default: input without extension)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.geographic, "geographic", false, "place nodes at their coordinates")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "coordinate units per inch with --geographic")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label links with lengths and nodes with attributes")
	cmd.Flags().BoolVar(&opts.candidates, "candidates", false, "highlight removal candidates")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even if cached")
	opts.filters.register(cmd)
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

// basePath derives the output base from the output flag or the input file.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	st := startStage(logger)
	net, err := netio.Import(input)
	if err != nil {
		return err
	}
	logLoaded(st, input, net)

	nlOpts := nodelink.Options{
		Geographic: opts.geographic,
		Scale:      opts.scale,
		Detailed:   opts.detailed,
	}
	if opts.candidates {
		candidates, err := selectCandidates(net, opts.filters.options())
		if err != nil {
			return err
		}
		nlOpts.Highlight = make(map[int]bool, len(candidates))
		for _, nd := range candidates {
			nlOpts.Highlight[nd.Number] = true
		}
		logger.Info("highlighting candidates", "candidates", len(candidates))
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()
	st = startStage(logger)
	artifacts, err := runner.RenderCached(ctx, net, opts.formats, nlOpts, opts.refresh)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return err
	}
	spinner.Stop()
	st.done("rendered network", "formats", opts.formats)

	base := basePath(opts.output, input)
	printSuccess("Rendered %s", input)
	for _, format := range opts.formats {
		path := base + "." + format
		if err := os.WriteFile(path, artifacts[format], 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}
