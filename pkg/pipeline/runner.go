package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netprune/pkg/cache"
	netio "github.com/matzehuels/netprune/pkg/io"
	"github.com/matzehuels/netprune/pkg/network"
	"github.com/matzehuels/netprune/pkg/observability"
	"github.com/matzehuels/netprune/pkg/render/nodelink"
	"github.com/matzehuels/netprune/pkg/simplify"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// cachedRun is the cache entry of the simplify stage.
type cachedRun struct {
	Network json.RawMessage  `json:"network"`
	Report  *simplify.Result `json:"report"`
}

// Execute runs the complete load → simplify → render → write pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	loadStart := time.Now()
	net, err := r.Load(ctx, opts.Input)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodesBefore = net.NodeCount()
	result.Stats.LinksBefore = net.LinkCount()

	simplifyStart := time.Now()
	out, report, info, err := r.SimplifyWithCacheInfo(ctx, net, opts)
	if err != nil {
		return nil, fmt.Errorf("simplify: %w", err)
	}
	result.Network = out
	result.Report = report
	result.InputHash = info.InputHash
	result.CacheHit = info.Hit
	result.Stats.SimplifyTime = time.Since(simplifyStart)
	result.Stats.NodesAfter = result.Network.NodeCount()
	result.Stats.LinksAfter = result.Network.LinkCount()

	r.Logger.Info("simplified network",
		"nodes", fmt.Sprintf("%d → %d", result.Stats.NodesBefore, result.Stats.NodesAfter),
		"links", fmt.Sprintf("%d → %d", result.Stats.LinksBefore, result.Stats.LinksAfter),
		"cached", info.Hit,
		"duration", result.Stats.SimplifyTime)

	if len(opts.Render) > 0 {
		renderStart := time.Now()
		artifacts, err := r.RenderCached(ctx, result.Network, opts.Render, opts.RenderOptions(), opts.Refresh)
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		result.Artifacts = artifacts
		result.Stats.RenderTime = time.Since(renderStart)
		r.Logger.Info("rendered outputs", "formats", opts.Render, "duration", result.Stats.RenderTime)
	}

	if opts.DryRun {
		return result, nil
	}

	writeStart := time.Now()
	written, err := r.Write(ctx, result, opts.Output)
	if err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	result.Written = written
	result.Stats.WriteTime = time.Since(writeStart)
	return result, nil
}

// Load reads a network file and reports the load stage to the pipeline hooks.
func (r *Runner) Load(ctx context.Context, path string) (*network.Network, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, path)
	start := time.Now()

	net, err := netio.Import(path)
	if err != nil {
		hooks.OnLoadComplete(ctx, path, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnLoadComplete(ctx, path, net.NodeCount(), net.LinkCount(), time.Since(start), nil)
	r.Logger.Debug("loaded network", "path", path,
		"nodes", net.NodeCount(), "links", net.LinkCount(), "lines", net.LineCount())
	return net, nil
}

// CacheInfo describes the cache lookup of the simplify stage.
type CacheInfo struct {
	// InputHash is the content hash of the network before simplification.
	InputHash string
	// Hit is true when the result came from the cache.
	Hit bool
}

// SimplifyWithCacheInfo simplifies net, consulting the cache first.
//
// On a cache miss net is simplified in place and returned. On a hit net is
// left untouched and a decoded copy of the cached network is returned.
func (r *Runner) SimplifyWithCacheInfo(ctx context.Context, net *network.Network, opts Options) (*network.Network, *simplify.Result, CacheInfo, error) {
	r.applyLogger(&opts)
	hooks := observability.Cache()

	var buf bytes.Buffer
	if err := netio.WriteJSON(net, &buf); err != nil {
		return nil, nil, CacheInfo{}, fmt.Errorf("hash network: %w", err)
	}
	info := CacheInfo{InputHash: cache.Hash(buf.Bytes())}
	key := r.Keyer.SimplifyKey(info.InputHash, opts.SimplifyKeyOpts())

	if !opts.Refresh {
		if cached, report, ok := r.lookup(ctx, key); ok {
			hooks.OnCacheHit(ctx, "simplify")
			info.Hit = true
			return cached, report, info, nil
		}
	}
	hooks.OnCacheMiss(ctx, "simplify")

	report, err := simplify.Run(ctx, net, opts.SimplifyOptions())
	if err != nil {
		return nil, nil, info, err
	}

	buf.Reset()
	if err := netio.WriteJSON(net, &buf); err == nil {
		data, err := json.Marshal(cachedRun{Network: buf.Bytes(), Report: report})
		if err == nil && r.Cache.Set(ctx, key, data, DefaultCacheTTL) == nil {
			hooks.OnCacheSet(ctx, "simplify", len(data))
		}
	}
	return net, report, info, nil
}

// Simplify is a convenience wrapper that calls SimplifyWithCacheInfo and discards the cache info.
func (r *Runner) Simplify(ctx context.Context, net *network.Network, opts Options) (*network.Network, *simplify.Result, error) {
	out, report, _, err := r.SimplifyWithCacheInfo(ctx, net, opts)
	return out, report, err
}

// lookup returns a decoded cache entry. Undecodable entries count as misses.
func (r *Runner) lookup(ctx context.Context, key string) (*network.Network, *simplify.Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		return nil, nil, false
	}
	var entry cachedRun
	if err := json.Unmarshal(data, &entry); err != nil || entry.Report == nil {
		r.Logger.Debug("ignoring corrupt cache entry", "key", key, "error", err)
		return nil, nil, false
	}
	net, err := netio.ReadJSON(bytes.NewReader(entry.Network))
	if err != nil {
		r.Logger.Debug("ignoring corrupt cache entry", "key", key, "error", err)
		return nil, nil, false
	}
	return net, entry.Report, true
}

// Render generates diagrams of net in the requested formats.
func Render(ctx context.Context, net *network.Network, formats []string, opts nodelink.Options) (map[string][]byte, error) {
	if err := ValidateFormats(formats); err != nil {
		return nil, err
	}
	dot := nodelink.ToDOT(net, opts)
	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		var data []byte
		var err error

		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot, opts)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, opts)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderCached is [Render] backed by the runner's cache. Each format is
// cached separately; only formats missing from the cache are rendered. With
// refresh set the cache is not read but is still updated.
func (r *Runner) RenderCached(ctx context.Context, net *network.Network, formats []string, opts nodelink.Options, refresh bool) (map[string][]byte, error) {
	if err := ValidateFormats(formats); err != nil {
		return nil, err
	}
	hooks := observability.Cache()

	var buf bytes.Buffer
	if err := netio.WriteJSON(net, &buf); err != nil {
		return nil, fmt.Errorf("hash network: %w", err)
	}
	hash := cache.Hash(buf.Bytes())

	artifacts := make(map[string][]byte, len(formats))
	keys := make(map[string]string, len(formats))
	var missing []string
	for _, format := range formats {
		key := r.Keyer.RenderKey(hash, renderKeyOpts(format, opts))
		keys[format] = key
		if !refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				hooks.OnCacheHit(ctx, "render")
				artifacts[format] = data
				continue
			}
		}
		hooks.OnCacheMiss(ctx, "render")
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, nil
	}

	fresh, err := Render(ctx, net, missing, opts)
	if err != nil {
		return nil, err
	}
	for format, data := range fresh {
		artifacts[format] = data
		if err := r.Cache.Set(ctx, keys[format], data, DefaultCacheTTL); err != nil {
			r.Logger.Debug("cache write failed", "format", format, "error", err)
			continue
		}
		hooks.OnCacheSet(ctx, "render", len(data))
	}
	return artifacts, nil
}

func renderKeyOpts(format string, opts nodelink.Options) cache.RenderKeyOpts {
	k := cache.RenderKeyOpts{
		Format:     format,
		Geographic: opts.Geographic,
		Scale:      opts.Scale,
		Detailed:   opts.Detailed,
	}
	for n, on := range opts.Highlight {
		if on {
			k.Highlight = append(k.Highlight, n)
		}
	}
	slices.Sort(k.Highlight)
	return k
}

// Write stores the simplified network at output and each artifact next to
// it, and returns the paths written.
func (r *Runner) Write(ctx context.Context, res *Result, output string) ([]string, error) {
	hooks := observability.Pipeline()
	hooks.OnWriteStart(ctx, output)
	start := time.Now()

	written, err := r.write(res, output)
	hooks.OnWriteComplete(ctx, output, time.Since(start), err)
	if err != nil {
		return written, err
	}
	r.Logger.Debug("wrote outputs", "files", written)
	return written, nil
}

func (r *Runner) write(res *Result, output string) ([]string, error) {
	if err := netio.Export(res.Network, output); err != nil {
		return nil, err
	}
	written := []string{output}
	for _, format := range sortedFormats(res.Artifacts) {
		path := ArtifactPath(output, format)
		if err := os.WriteFile(path, res.Artifacts[format], 0644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func sortedFormats(artifacts map[string][]byte) []string {
	var out []string
	for _, f := range []string{FormatDOT, FormatSVG, FormatPNG} {
		if _, ok := artifacts[f]; ok {
			out = append(out, f)
		}
	}
	return out
}
