// Package io reads and writes networks as JSON or YAML files.
//
// # Overview
//
// The simplification core works on an in-memory [network.Network]. This
// package is the provider that loads one from disk and writes the simplified
// result back. Both codecs share one document shape, so a network converts
// between formats without loss.
//
// # Format
//
//	{
//	  "extra_attributes": [
//	    {"name": "@speed", "domain": "LINK", "default": 50}
//	  ],
//	  "nodes": [
//	    {"number": 1, "x": 0, "y": 0},
//	    {"number": 2, "x": 1, "y": 0, "attributes": {"data1": 3}},
//	    {"number": 3, "x": 2, "y": 0},
//	    {"number": 100, "centroid": true, "x": 1, "y": 1}
//	  ],
//	  "links": [
//	    {"i": 1, "j": 2, "attributes": {"length": 0.4, "volume_delay_func": 2}},
//	    {"i": 2, "j": 3, "vertices": [[1.5, 0.1]], "attributes": {"length": 0.6}}
//	  ],
//	  "lines": [
//	    {"id": "501", "mode": "b", "segments": [
//	      {"i": 1, "j": 2, "attributes": {"allow_alightings": false}},
//	      {"i": 2, "j": 3}
//	    ]}
//	  ]
//	}
//
// Attribute values are numbers or booleans. Attributes that are left out
// take the default of their domain. An attribute that is neither standard
// nor declared in extra_attributes is rejected.
//
// # Import and Export
//
// [Import] and [Export] pick the codec from the file extension (.json,
// .yaml, .yml). [ReadJSON], [WriteJSON], [ReadYAML] and [WriteYAML] work on
// any reader or writer.
//
//	net, err := io.Import("base.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// ... simplify ...
//	err = io.Export(net, "simplified.yaml")
//
// Decoding errors carry the INVALID_FORMAT code and name the element that
// caused them.
package io
