package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netprune/pkg/errors"
	netio "github.com/matzehuels/netprune/pkg/io"
	"github.com/matzehuels/netprune/pkg/pipeline"
)

// road is a two-way road 1 ⇄ 2 ⇄ 3; node 2 carries data1 = 1.
const road = `{
  "nodes": [
    {"number": 1, "x": 0, "y": 0},
    {"number": 2, "x": 1, "y": 0, "attributes": {"data1": 1}},
    {"number": 3, "x": 2, "y": 0}
  ],
  "links": [
    {"i": 1, "j": 2, "attributes": {"length": 1}},
    {"i": 2, "j": 3, "attributes": {"length": 2}},
    {"i": 3, "j": 2, "attributes": {"length": 2}},
    {"i": 2, "j": 1, "attributes": {"length": 1}}
  ]
}`

func writeRoad(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "road.json")
	if err := os.WriteFile(path, []byte(road), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testCLI() *CLI {
	return New(io.Discard, log.InfoLevel)
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	root := testCLI().RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.Execute()
}

func TestRootCommandSubcommands(t *testing.T) {
	root := testCLI().RootCommand()
	want := []string{"simplify", "candidates", "policy", "render", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "dot,svg,png", []string{"dot", "svg", "png"}},
		{"spaces and empty parts", " svg , ,png", []string{"svg", "png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "net.json", "net"},
		{"", "dir/net.yaml", "dir/net"},
		{"out.svg", "net.json", "out"},
		{"out", "net.json", "out"},
		{"out.v2", "net.json", "out.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestMergeConfig(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "netprune.toml")
	content := `input = "road.json"
node_filter = "ui1"
rules = "length: max"
render = ["dot"]
`
	if err := os.WriteFile(config, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := testCLI().simplifyCommand()
	if err := cmd.Flags().Set("node-filter", "none"); err != nil {
		t.Fatal(err)
	}
	opts, err := mergeConfig(cmd, simplifyFlags{config: config}, pipeline.Options{NodeFilter: "none"}, nil)
	if err != nil {
		t.Fatalf("mergeConfig: %v", err)
	}
	if opts.Input != filepath.Join(dir, "road.json") {
		t.Errorf("Input = %q", opts.Input)
	}
	if opts.NodeFilter != "none" {
		t.Errorf("flag should override config: NodeFilter = %q", opts.NodeFilter)
	}
	if opts.Rules != "length: max" {
		t.Errorf("config rules should be kept: %q", opts.Rules)
	}
	if len(opts.Render) != 1 || opts.Render[0] != "dot" {
		t.Errorf("Render = %v", opts.Render)
	}

	// A positional argument replaces the configured input.
	opts, err = mergeConfig(testCLI().simplifyCommand(), simplifyFlags{config: config}, pipeline.Options{}, []string{"other.json"})
	if err != nil {
		t.Fatal(err)
	}
	if opts.Input != "other.json" {
		t.Errorf("Input = %q, want other.json", opts.Input)
	}
}

func TestMergeConfigRulesFile(t *testing.T) {
	dir := t.TempDir()
	rules := filepath.Join(dir, "rules.txt")
	if err := os.WriteFile(rules, []byte("length: max\nvdf: force\n"), 0644); err != nil {
		t.Fatal(err)
	}

	opts, err := mergeConfig(testCLI().simplifyCommand(), simplifyFlags{rulesFile: rules}, pipeline.Options{}, []string{"net.json"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(opts.Rules, "vdf: force") {
		t.Errorf("Rules = %q", opts.Rules)
	}

	cmd := testCLI().simplifyCommand()
	_ = cmd.Flags().Set("rules", "length: sum")
	if _, err := mergeConfig(cmd, simplifyFlags{rulesFile: rules}, pipeline.Options{}, nil); err == nil {
		t.Error("--rules with --rules-file should fail")
	}
}

func TestSimplifyCommand(t *testing.T) {
	input := writeRoad(t)
	output := filepath.Join(filepath.Dir(input), "out.json")
	report := filepath.Join(filepath.Dir(input), "report.json")

	if err := execute(t, "simplify", input, "-o", output, "--no-cache", "--report", report); err != nil {
		t.Fatalf("simplify: %v", err)
	}
	net, err := netio.Import(output)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := net.Node(2); ok {
		t.Error("node 2 should be removed")
	}
	if _, ok := net.Link(1, 3); !ok {
		t.Error("merged link 1-3 missing")
	}

	data, err := os.ReadFile(report)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"deleted": 1`) {
		t.Errorf("report should record one deletion:\n%s", data)
	}
}

func TestSimplifyCommandNodeFilter(t *testing.T) {
	input := writeRoad(t)
	output := filepath.Join(filepath.Dir(input), "out.json")

	// Node 2 has data2 = 0, so the filter keeps it.
	if err := execute(t, "simplify", input, "-o", output, "--no-cache", "--node-filter", "data2"); err != nil {
		t.Fatal(err)
	}
	net, err := netio.Import(output)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := net.Node(2); !ok {
		t.Error("node 2 should be kept when its filter attribute is zero")
	}
}

func TestSimplifyCommandErrors(t *testing.T) {
	if err := execute(t, "simplify", "--no-cache"); err == nil {
		t.Error("missing input should fail")
	}

	input := writeRoad(t)
	err := execute(t, "simplify", input, "--no-cache", "--dry-run", "--rules", "length sum")
	if !errors.IsConfiguration(err) {
		t.Errorf("malformed rules: got %v, want configuration error", err)
	}
}

func TestCandidatesCommand(t *testing.T) {
	input := writeRoad(t)
	if err := execute(t, "candidates", input, "-q"); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, "candidates", input, "--node-filter", "nosuch"); !errors.IsConfiguration(err) {
		t.Errorf("unknown filter attribute: got %v, want configuration error", err)
	}
}

func TestCandidateRows(t *testing.T) {
	net, err := netio.Import(writeRoad(t))
	if err != nil {
		t.Fatal(err)
	}
	cands, err := selectCandidates(net, (&filterFlags{}).options())
	if err != nil {
		t.Fatal(err)
	}
	rows := candidateRows(net, cands)
	if len(rows) != 1 {
		t.Fatalf("rows = %+v, want one candidate", rows)
	}
	r := rows[0]
	if r.node != 2 || r.links != 4 || len(r.neighbours) != 2 || r.neighbours[0] != 1 || r.neighbours[1] != 3 {
		t.Errorf("row = %+v", r)
	}
}

func TestPolicyCommand(t *testing.T) {
	if err := execute(t, "policy"); err != nil {
		t.Errorf("policy with default rules: %v", err)
	}
	if err := execute(t, "policy", "--functions"); err != nil {
		t.Errorf("policy --functions: %v", err)
	}
	err := execute(t, "policy", "--rules", "length: median")
	if !errors.Is(err, errors.ErrCodeUnknownFunction) {
		t.Errorf("unknown function: got %v", err)
	}
}

func TestRenderCommandDOT(t *testing.T) {
	input := writeRoad(t)
	if err := execute(t, "render", input, "-f", "dot", "--candidates", "--no-cache"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(strings.TrimSuffix(input, ".json") + ".dot")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "digraph") {
		t.Errorf("unexpected DOT output:\n%s", data)
	}

	if err := execute(t, "render", input, "-f", "pdf", "--no-cache"); err == nil {
		t.Error("unsupported format should fail")
	}
}

func TestFormatStats(t *testing.T) {
	got := formatStats(3, 2, 4, 2, true)
	for _, want := range []string{"3 → 2 nodes", "4 → 2 links", iconCached} {
		if !strings.Contains(got, want) {
			t.Errorf("formatStats() = %q, missing %q", got, want)
		}
	}
}

func TestFormatError(t *testing.T) {
	cfg := FormatError(errors.New(errors.ErrCodeUnknownFunction, "unknown function %q", "median"))
	if !strings.Contains(cfg, "median") || !strings.Contains(cfg, "--functions") {
		t.Errorf("configuration error should carry a hint: %q", cfg)
	}
	other := FormatError(errors.New(errors.ErrCodeFileNotFound, "open net.json"))
	if strings.Contains(other, "--functions") {
		t.Errorf("non-configuration error should not carry a hint: %q", other)
	}
}
