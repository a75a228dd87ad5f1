// Package pipeline provides the load → simplify → render → write pipeline
// shared by the CLI and library callers.
//
// # Architecture
//
// A run consists of four stages:
//
//  1. Load: read the network file (JSON or YAML)
//  2. Simplify: remove degree-2 nodes (see package simplify)
//  3. Render: optional DOT, SVG and PNG diagrams of the result
//  4. Write: the simplified network and the diagrams, next to each other
//
// The simplify stage is cached: its key combines the content hash of the
// loaded network with the options that affect the result, so re-running an
// unchanged input skips the merge work.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:  "network.json",
//	    Output: "network.simplified.json",
//	    Rules:  policy.DefaultRules,
//	    Render: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//
// Options can also be read from a TOML file with [LoadOptions].
package pipeline

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netprune/pkg/cache"
	"github.com/matzehuels/netprune/pkg/errors"
	netio "github.com/matzehuels/netprune/pkg/io"
	"github.com/matzehuels/netprune/pkg/network"
	"github.com/matzehuels/netprune/pkg/policy"
	"github.com/matzehuels/netprune/pkg/render/nodelink"
	"github.com/matzehuels/netprune/pkg/simplify"
)

// DefaultCacheTTL is how long simplification results stay cached.
const DefaultCacheTTL = 7 * 24 * time.Hour

// Format constants for rendered outputs.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// ValidFormats is the set of supported render formats.
var ValidFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
	FormatPNG: true,
}

// Options contains all configuration for a pipeline run.
type Options struct {
	// Input is the network file to read (.json, .yaml or .yml).
	Input string `json:"input" toml:"input"`

	// Output is the file the simplified network is written to. Defaults to
	// the input name with a ".simplified" suffix before the extension.
	Output string `json:"output,omitempty" toml:"output"`

	// Simplify options, see simplify.Options.
	NodeFilter      string `json:"node_filter,omitempty" toml:"node_filter"`
	StopFilter      string `json:"stop_filter,omitempty" toml:"stop_filter"`
	ConnectorFilter string `json:"connector_filter,omitempty" toml:"connector_filter"`
	Rules           string `json:"rules,omitempty" toml:"rules"`

	// Render lists diagram formats written next to the output.
	Render     []string `json:"render,omitempty" toml:"render"`
	Geographic bool     `json:"geographic,omitempty" toml:"geographic"`

	// Refresh skips cache lookups; the new result is still stored.
	Refresh bool `json:"refresh,omitempty" toml:"refresh"`

	// DryRun simplifies without writing any files.
	DryRun bool `json:"dry_run,omitempty" toml:"dry_run"`

	// Runtime options (not serialized)
	Logger   *log.Logger            `json:"-" toml:"-"`
	Progress func(done, total int) `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Network is the simplified network.
	Network *network.Network

	// Report describes the simplification. On a cache hit it is the report
	// of the run that produced the cached network.
	Report *simplify.Result

	// InputHash is the content hash of the loaded network.
	InputHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Written lists the files written, network first.
	Written []string

	Stats    Stats
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodesBefore  int
	LinksBefore  int
	NodesAfter   int
	LinksAfter   int
	LoadTime     time.Duration
	SimplifyTime time.Duration
	RenderTime   time.Duration
	WriteTime    time.Duration
}

// ValidateFormat checks that a render format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeConfiguration, "invalid render format: %q (must be one of: dot, svg, png)", format)
	}
	return nil
}

// ValidateFormats checks that all render formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// DefaultOutput returns the default output path for an input file:
// "net.json" becomes "net.simplified.json".
func DefaultOutput(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + ".simplified" + ext
}

// ArtifactPath returns the path a rendered format is written to, next to
// the network output.
func ArtifactPath(output, format string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + "." + format
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Input == "" {
		return errors.New(errors.ErrCodeConfiguration, "input is required")
	}
	if _, err := netio.FormatFromPath(o.Input); err != nil {
		return err
	}
	if o.Output == "" {
		o.Output = DefaultOutput(o.Input)
	}
	if _, err := netio.FormatFromPath(o.Output); err != nil {
		return err
	}
	if o.Output == o.Input {
		return errors.New(errors.ErrCodeConfiguration, "output must differ from input %q", o.Input)
	}
	if strings.TrimSpace(o.Rules) == "" {
		o.Rules = policy.DefaultRules
	}
	if err := ValidateFormats(o.Render); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// SimplifyOptions returns the options of the simplify stage.
func (o *Options) SimplifyOptions() simplify.Options {
	return simplify.Options{
		NodeFilter:      o.NodeFilter,
		StopFilter:      o.StopFilter,
		ConnectorFilter: o.ConnectorFilter,
		Rules:           o.Rules,
		Logger:          o.Logger,
		Progress:        o.Progress,
	}
}

// RenderOptions returns the options of the render stage.
func (o *Options) RenderOptions() nodelink.Options {
	return nodelink.Options{Geographic: o.Geographic}
}

// SimplifyKeyOpts returns cache key options for the simplify stage. Filters
// are normalized so that equivalent spellings share a cache entry.
func (o *Options) SimplifyKeyOpts() cache.SimplifyKeyOpts {
	node, stop, conn := o.SimplifyOptions().Filters()
	return cache.SimplifyKeyOpts{
		NodeFilter:      node.String(),
		StopFilter:      stop.String(),
		ConnectorFilter: conn.String(),
		Rules:           o.Rules,
	}
}
