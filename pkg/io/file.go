package io

import (
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/matzehuels/netprune/pkg/errors"
	"github.com/matzehuels/netprune/pkg/network"
)

// Read decodes a network from r in the given format.
func Read(r io.Reader, format string) (*network.Network, error) {
	switch format {
	case FormatJSON:
		return ReadJSON(r)
	case FormatYAML:
		return ReadYAML(r)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported network format %q", format)
}

// Write encodes a network to w in the given format.
func Write(net *network.Network, w io.Writer, format string) error {
	switch format {
	case FormatJSON:
		return WriteJSON(net, w)
	case FormatYAML:
		return WriteYAML(net, w)
	}
	return errors.New(errors.ErrCodeUnsupported, "unsupported network format %q", format)
}

// Import reads a network file, choosing the codec from the file extension.
// A missing file yields a FILE_NOT_FOUND error.
func Import(path string) (*network.Network, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	net, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return net, nil
}

// Export writes a network file, choosing the codec from the file extension.
func Export(net *network.Network, path string) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(net, f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
