package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/netprune/pkg/errors"
	"github.com/matzehuels/netprune/pkg/policy"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestDefaultOutput(t *testing.T) {
	tests := []struct{ in, want string }{
		{"net.json", "net.simplified.json"},
		{"dir/net.yaml", "dir/net.simplified.yaml"},
		{"a.b.yml", "a.b.simplified.yml"},
	}
	for _, tt := range tests {
		if got := DefaultOutput(tt.in); got != tt.want {
			t.Errorf("DefaultOutput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestArtifactPath(t *testing.T) {
	if got := ArtifactPath("out/net.simplified.json", "svg"); got != "out/net.simplified.svg" {
		t.Errorf("ArtifactPath = %q", got)
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{Input: "net.json"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}
	if opts.Output != "net.simplified.json" {
		t.Errorf("Output should default to %q, got %q", "net.simplified.json", opts.Output)
	}
	if opts.Rules != policy.DefaultRules {
		t.Error("Rules should default to policy.DefaultRules")
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"missing input", Options{}, errors.ErrCodeConfiguration},
		{"unknown input extension", Options{Input: "net.csv"}, errors.ErrCodeUnsupported},
		{"unknown output extension", Options{Input: "net.json", Output: "out.txt"}, errors.ErrCodeUnsupported},
		{"output equals input", Options{Input: "net.json", Output: "net.json"}, errors.ErrCodeConfiguration},
		{"bad render format", Options{Input: "net.json", Render: []string{"pdf"}}, errors.ErrCodeConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %v, want %v (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Input: "net.json", Rules: "length: sum"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	first := opts.Output
	opts.Output = "custom.json"
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Output != "custom.json" || first != "net.simplified.json" {
		t.Error("second call should not reapply defaults")
	}
	if opts.Rules != "length: sum" {
		t.Error("explicit rules should be kept")
	}
}

func TestSimplifyKeyOptsNormalizesFilters(t *testing.T) {
	a := Options{NodeFilter: "none", StopFilter: ""}
	b := Options{NodeFilter: "", StopFilter: "-1"}
	if a.SimplifyKeyOpts() != b.SimplifyKeyOpts() {
		t.Errorf("equivalent filters should share keys: %+v vs %+v", a.SimplifyKeyOpts(), b.SimplifyKeyOpts())
	}
	c := Options{NodeFilter: "ui1"}
	if a.SimplifyKeyOpts() == c.SimplifyKeyOpts() {
		t.Error("different filters should produce different keys")
	}
}

func TestLoadOptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "netprune.toml")
	config := `input = "net.json"
output = "/abs/out.yaml"
node_filter = "ui1"
connector_filter = "ul1"
rules = """
length: sum
vdf: force
"""
render = ["dot", "svg"]
geographic = true
`
	if err := os.WriteFile(path, []byte(config), 0644); err != nil {
		t.Fatal(err)
	}

	opts, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	if opts.Input != filepath.Join(dir, "net.json") {
		t.Errorf("Input should resolve against the config dir, got %q", opts.Input)
	}
	if opts.Output != "/abs/out.yaml" {
		t.Errorf("absolute Output should be kept, got %q", opts.Output)
	}
	if opts.NodeFilter != "ui1" || opts.ConnectorFilter != "ul1" {
		t.Errorf("filters = %q, %q", opts.NodeFilter, opts.ConnectorFilter)
	}
	if !strings.Contains(opts.Rules, "vdf: force") {
		t.Errorf("Rules = %q", opts.Rules)
	}
	if len(opts.Render) != 2 || !opts.Geographic {
		t.Errorf("Render = %v, Geographic = %v", opts.Render, opts.Geographic)
	}
}

func TestLoadOptionsErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "input = \"net.json\"\nnode_filterr = \"ui1\"\n"},
		{"malformed", "input = \n"},
		{"wrong type", "render = \"svg\"\n"},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.Repeat("x", i+1)+".toml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadOptions(path)
			if !errors.IsConfiguration(err) {
				t.Errorf("expected configuration error, got %v", err)
			}
		})
	}

	if _, err := LoadOptions(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("missing config file should fail")
	}
}
