package io

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/netprune/pkg/errors"
	"github.com/matzehuels/netprune/pkg/network"
)

// ReadYAML decodes a YAML network from r. The document has the same shape
// as the JSON format; see [ReadJSON] for validation and errors.
func ReadYAML(r io.Reader) (*network.Network, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode")
	}
	return fromDocument(doc)
}

// WriteYAML encodes a network as YAML and writes it to w.
func WriteYAML(net *network.Network, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toDocument(net)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}
