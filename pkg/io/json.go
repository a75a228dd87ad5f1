package io

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/netprune/pkg/errors"
	"github.com/matzehuels/netprune/pkg/network"
)

// ReadJSON decodes a JSON network from r.
//
// The input must be an object with "nodes" and "links" arrays and optional
// "extra_attributes" and "lines" arrays (see the package documentation).
// Attribute values must be numbers or booleans, and every attribute must be
// standard for its domain or declared in "extra_attributes".
//
// ReadJSON returns an INVALID_FORMAT error if the JSON is malformed or the
// network it describes is inconsistent (duplicate nodes, links to unknown
// nodes, disconnected transit lines). The underlying network error is
// wrapped, so errors.Is works with the network sentinels.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*network.Network, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode")
	}
	return fromDocument(doc)
}

// WriteJSON encodes a network as indented JSON and writes it to w. Every
// element is written with its full attribute set, so the output can be
// re-read with [ReadJSON] without loss.
func WriteJSON(net *network.Network, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toDocument(net)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
