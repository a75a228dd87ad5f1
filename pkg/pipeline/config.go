package pipeline

import (
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/netprune/pkg/errors"
)

// LoadOptions reads pipeline options from a TOML file:
//
//	input = "network.json"
//	node_filter = "data1"
//	connector_filter = "none"
//	rules = """
//	length: sum
//	vdf: force
//	"""
//	render = ["svg"]
//
// Relative input and output paths are resolved against the directory of the
// config file. Unknown keys are rejected so that typos do not silently fall
// back to defaults.
func LoadOptions(path string) (Options, error) {
	var opts Options
	md, err := toml.DecodeFile(path, &opts)
	if err != nil {
		return Options{}, errors.Wrap(errors.ErrCodeConfiguration, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Options{}, errors.New(errors.ErrCodeConfiguration, "config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}

	dir := filepath.Dir(path)
	if opts.Input != "" && !filepath.IsAbs(opts.Input) {
		opts.Input = filepath.Join(dir, opts.Input)
	}
	if opts.Output != "" && !filepath.IsAbs(opts.Output) {
		opts.Output = filepath.Join(dir, opts.Output)
	}
	return opts, nil
}
