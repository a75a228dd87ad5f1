// Package pkg provides the core libraries for netprune network simplification.
//
// # Overview
//
// netprune removes pass-through nodes from a transportation network. A node
// that joins exactly two neighbours is deleted and its two links (in each
// direction) are merged into one, with link and transit segment attributes
// combined by a per-attribute aggregation policy. The pkg directory is
// organized as follows:
//
//  1. [network] - Nodes, links, transit lines and their attributes
//  2. [aggregate] - Aggregation functions used when two elements are merged
//  3. [policy] - Per-attribute aggregation rules and their text syntax
//  4. [simplify] - Candidate selection, connector pruning and link merging
//  5. [io] - JSON and YAML network files
//  6. [render/nodelink] - Graphviz DOT, SVG and PNG output
//  7. [pipeline] - Orchestration (load → simplify → render → write) with caching
//  8. [cache], [errors], [observability], [buildinfo] - Supporting infrastructure
//
// # Architecture
//
// The typical data flow through netprune:
//
//	network.json / network.yaml
//	         ↓
//	    [io] package (import and validate)
//	         ↓
//	    [simplify] package (prune connectors, merge candidates)
//	         ↓
//	    [render/nodelink] package (optional DOT/SVG/PNG)
//	         ↓
//	    simplified network file + artifacts
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/netprune/pkg/io"
//	    "github.com/matzehuels/netprune/pkg/simplify"
//	)
//
//	net, err := io.Import("network.json")
//	if err != nil {
//	    return err
//	}
//	res, err := simplify.Run(context.Background(), net, simplify.Options{
//	    Rules: "length: sum\nnum_lanes: min",
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("deleted %d nodes, skipped %d\n", res.Deleted, len(res.Skipped))
//	return io.Export(net, "network.simplified.json")
//
// For cached, logged runs use [pipeline.Runner], which the netprune command
// line tool is built on.
//
// # Testing
//
//	go test ./...                      # All packages
//	go test ./pkg/simplify/...         # Specific package
//
// [network]: https://pkg.go.dev/github.com/matzehuels/netprune/pkg/network
// [aggregate]: https://pkg.go.dev/github.com/matzehuels/netprune/pkg/aggregate
// [policy]: https://pkg.go.dev/github.com/matzehuels/netprune/pkg/policy
// [simplify]: https://pkg.go.dev/github.com/matzehuels/netprune/pkg/simplify
// [io]: https://pkg.go.dev/github.com/matzehuels/netprune/pkg/io
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/netprune/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/netprune/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/netprune/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/matzehuels/netprune/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/netprune/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/netprune/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/netprune/pkg/buildinfo
package pkg
