package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/netweave/pkg/errors"
	"github.com/matzehuels/netweave/pkg/network"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a network to indented JSON bytes.
func MarshalGraph(g *network.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeGraphTo(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalGraph decodes JSON bytes into a validated network.
func UnmarshalGraph(data []byte) (*network.Graph, error) {
	return readGraphFrom(bytes.NewReader(data))
}

// WriteGraphFile writes a network to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(g *network.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeGraphTo(g, f)
}

// WriteGraph writes a network as JSON to an io.Writer.
func WriteGraph(g *network.Graph, w io.Writer) error {
	return writeGraphTo(g, w)
}

// ReadGraphFile reads a JSON file and returns the decoded network.
func ReadGraphFile(path string) (*network.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "graph file %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readGraphFrom(f)
}

// ReadGraph decodes a JSON graph from an io.Reader.
func ReadGraph(r io.Reader) (*network.Graph, error) {
	return readGraphFrom(r)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeGraphTo(g *network.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromNetwork(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readGraphFrom(r io.Reader) (*network.Graph, error) {
	var data Graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode graph")
	}
	return ToNetwork(data)
}
