package simplify

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"runtime/debug"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/netprune/pkg/aggregate"
	"github.com/matzehuels/netprune/pkg/errors"
	"github.com/matzehuels/netprune/pkg/network"
	"github.com/matzehuels/netprune/pkg/observability"
	"github.com/matzehuels/netprune/pkg/policy"
)

// Options configures a simplification run.
type Options struct {
	// NodeFilter names a node attribute that must be nonzero for a node to
	// be removed. "none" or empty allows every node.
	NodeFilter string `json:"node_filter,omitempty" toml:"node_filter"`

	// StopFilter names a node attribute that, when nonzero, allows a transit
	// stop to be removed. "none" or empty keeps every stop.
	StopFilter string `json:"stop_filter,omitempty" toml:"stop_filter"`

	// ConnectorFilter names a link attribute marking centroid connectors that
	// may be deleted so their node can be removed. "none" or empty keeps all
	// connectors, and nodes with connectors are never removed.
	ConnectorFilter string `json:"connector_filter,omitempty" toml:"connector_filter"`

	// Rules is aggregation rule text, "attribute: function" pairs separated
	// by commas or newlines.
	Rules string `json:"rules,omitempty" toml:"rules"`

	// Logger receives progress and per-node diagnostics. Defaults to a
	// discarding logger.
	Logger *log.Logger `json:"-" toml:"-"`

	// Progress, if set, is called after each candidate is processed.
	Progress func(done, total int) `json:"-" toml:"-"`
}

// Filters returns the node, stop and connector filters the options describe.
func (o Options) Filters() (node, stop, connector Filter) {
	return ParseFilter(o.NodeFilter, Always()),
		ParseFilter(o.StopFilter, Never()),
		ParseFilter(o.ConnectorFilter, Never())
}

// Skip records a candidate node that was kept.
type Skip struct {
	Node      int         `json:"node"`
	Code      errors.Code `json:"code"`
	Attribute string      `json:"attribute,omitempty"`
	Message   string      `json:"message"`
}

// Result summarizes a run. Nodes that are not listed in Skipped were removed.
type Result struct {
	RunID             string        `json:"run_id"`
	Passes            int           `json:"passes"`
	Candidates        int           `json:"candidates"`
	ConnectorsRemoved int           `json:"connectors_removed"`
	Deleted           int           `json:"deleted"`
	Skipped           []Skip        `json:"skipped,omitempty"`
	Log               []string      `json:"log,omitempty"`
	Duration          time.Duration `json:"duration"`
}

// Run simplifies net in place.
//
// The policy is compiled first and the filters are checked by the first
// candidate selection; a failure in either is returned and the network is
// untouched. Each pass then selects candidates, prunes connectors (when a
// connector filter is set) and merges every candidate in turn. Passes repeat
// until one deletes nothing, so running Run again on its output removes no
// further node.
//
// A node that cannot be merged is recorded in the result and the run moves
// on; Skipped holds the last reason of every node that survived. Candidates
// counts distinct nodes over all passes. ctx is checked between nodes; on
// cancellation the partial result is returned together with ctx.Err().
// Progress is reported per pass.
func Run(ctx context.Context, net *network.Network, opts Options) (*Result, error) {
	start := time.Now()
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	hooks := observability.Simplify()

	res := &Result{RunID: uuid.NewString()}
	logger = logger.With("run", res.RunID[:8])

	pol, err := policy.Compile(net, opts.Rules)
	if err != nil {
		return nil, err
	}

	skips := newSkipLog()
	seen := make(map[int]bool)
	finish := func(err error) (*Result, error) {
		res.Skipped = skips.list()
		for _, sk := range res.Skipped {
			res.Log = append(res.Log, sk.Message)
		}
		res.Duration = time.Since(start)
		hooks.OnRunComplete(ctx, res.Deleted, len(res.Skipped), res.Duration, err)
		return res, err
	}

	nodeF, stopF, connF := opts.Filters()
	for {
		selectStart := time.Now()
		candidates, err := SelectCandidates(net, nodeF, stopF, connF)
		if err != nil {
			return nil, err
		}
		if res.Passes == 0 || len(candidates) > 0 {
			hooks.OnCandidatesSelected(ctx, len(candidates), time.Since(selectStart))
		}
		if len(candidates) == 0 {
			break
		}
		res.Passes++
		for _, nd := range candidates {
			if !seen[nd.Number] {
				seen[nd.Number] = true
				res.Candidates++
			}
		}
		logger.Info("selected candidates", "pass", res.Passes, "nodes", len(candidates),
			"node_filter", nodeF, "stop_filter", stopF, "connector_filter", connF)

		if removed := PruneConnectors(net, candidates, connF); removed > 0 {
			res.ConnectorsRemoved += removed
			logger.Info("removed centroid connectors", "links", removed)
		}

		deleted := 0
		for i, nd := range candidates {
			if err := ctx.Err(); err != nil {
				return finish(err)
			}
			if err := mergeIsolated(net, nd, pol, logger); err != nil {
				skip := classify(nd.Number, err)
				if skips.add(skip) {
					hooks.OnNodeSkipped(ctx, nd.Number, string(skip.Code))
				}
				logger.Debug("kept node", "node", nd.Number, "code", skip.Code)
			} else {
				skips.drop(nd.Number)
				deleted++
				res.Deleted++
				hooks.OnNodeMerged(ctx, nd.Number)
			}
			if opts.Progress != nil {
				opts.Progress(i+1, len(candidates))
			}
		}
		if deleted == 0 {
			break
		}
	}

	res, err = finish(nil)
	logger.Info("removed nodes", "deleted", res.Deleted, "skipped", len(res.Skipped),
		"passes", res.Passes, "duration", res.Duration)
	return res, err
}

// skipLog keeps the latest skip of each node in first-seen order.
type skipLog struct {
	order  []int
	listed map[int]bool
	byNode map[int]Skip
}

func newSkipLog() *skipLog {
	return &skipLog{listed: make(map[int]bool), byNode: make(map[int]Skip)}
}

// add records sk and reports whether the node was not yet recorded.
func (s *skipLog) add(sk Skip) bool {
	if !s.listed[sk.Node] {
		s.listed[sk.Node] = true
		s.order = append(s.order, sk.Node)
	}
	_, known := s.byNode[sk.Node]
	s.byNode[sk.Node] = sk
	return !known
}

// drop forgets a node that a later pass removed.
func (s *skipLog) drop(node int) { delete(s.byNode, node) }

func (s *skipLog) list() []Skip {
	var out []Skip
	for _, n := range s.order {
		if sk, ok := s.byNode[n]; ok {
			out = append(out, sk)
		}
	}
	return out
}

// mergeIsolated merges one node and turns a panic into an error so a single
// malformed node cannot abort the run.
func mergeIsolated(net *network.Network, nd *network.Node, pol *policy.Policy, logger *log.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("panic while merging", "node", nd.Number, "stack", string(debug.Stack()))
			err = errors.New(errors.ErrCodeInternal, "panic: %v", r)
		}
	}()
	return MergeNode(net, nd, pol)
}

// classify maps a merge error to its log entry.
func classify(node int, err error) Skip {
	var conflict *aggregate.ConflictError
	switch {
	case stderrors.As(err, &conflict):
		return Skip{
			Node:      node,
			Code:      errors.ErrCodeMergeConflict,
			Attribute: conflict.Attribute,
			Message:   fmt.Sprintf("Node %d not deleted. User-specified aggregator for '%s' detected changes.", node, conflict.Attribute),
		}
	case stderrors.Is(err, network.ErrInvalidOperation):
		return Skip{Node: node, Code: errors.ErrCodeInvalidOperation, Message: err.Error()}
	default:
		return Skip{
			Node:    node,
			Code:    errors.ErrCodeInternal,
			Message: fmt.Sprintf("Deep error processing node %d: %v", node, err),
		}
	}
}
