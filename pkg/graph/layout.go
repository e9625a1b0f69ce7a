package graph

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/netweave/pkg/errors"
	"github.com/matzehuels/netweave/pkg/generate"
	"github.com/matzehuels/netweave/pkg/layout"
	"github.com/matzehuels/netweave/pkg/network"
	"github.com/matzehuels/netweave/pkg/normalize"
)

// =============================================================================
// Layout - Renderer Handoff
// =============================================================================

// Layout is the document handed to renderers: pixel positions for every node
// plus the edge list, together with the frame and the inputs that produced
// them. Renderers own all styling.
type Layout struct {
	// Provenance
	RunID   string          `json:"run_id,omitempty"`
	Network string          `json:"network"`
	Layout  string          `json:"layout"`
	Seed    uint64          `json:"seed"`
	Params  generate.Params `json:"params"`

	// Frame
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin float64 `json:"margin"`

	// Structure
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is a positioned node in pixel space.
type Node struct {
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Degree int     `json:"degree"`
}

// NewLayout assembles the handoff document for g placed at pos inside f.
// Provenance fields are left for the caller.
func NewLayout(g *network.Graph, pos layout.Positions, f normalize.Frame) (Layout, error) {
	if len(pos) != g.N() {
		return Layout{}, errors.New(errors.ErrCodeInternal,
			"%d positions for %d nodes", len(pos), g.N())
	}
	l := Layout{
		Network: g.Kind(),
		Width:   f.Width,
		Height:  f.Height,
		Margin:  f.Margin,
		Nodes:   make([]Node, len(pos)),
		Edges:   edgesFromNetwork(g),
	}
	for i, p := range pos {
		l.Nodes[i] = Node{ID: i, X: p.X, Y: p.Y, Degree: g.Degree(i)}
	}
	return l, nil
}

// Frame returns the canvas the positions were normalized into.
func (l *Layout) Frame() normalize.Frame {
	return normalize.Frame{Width: l.Width, Height: l.Height, Margin: l.Margin}
}

// Positions returns the node coordinates indexed by id.
func (l *Layout) Positions() layout.Positions {
	out := make(layout.Positions, len(l.Nodes))
	for i, n := range l.Nodes {
		out[i] = r2.Vec{X: n.X, Y: n.Y}
	}
	return out
}

// Validate checks that nodes are listed by id, coordinates are finite and
// every edge joins two listed nodes.
func (l *Layout) Validate() error {
	for i, n := range l.Nodes {
		if n.ID != i {
			return errors.New(errors.ErrCodeInvalidFormat, "node %d listed at index %d", n.ID, i)
		}
		if math.IsNaN(n.X) || math.IsNaN(n.Y) || math.IsInf(n.X, 0) || math.IsInf(n.Y, 0) {
			return errors.New(errors.ErrCodeInvalidFormat, "node %d has non-finite position", i)
		}
	}
	for _, e := range l.Edges {
		if e.Source < 0 || e.Target < 0 || e.Source >= len(l.Nodes) || e.Target >= len(l.Nodes) {
			return errors.New(errors.ErrCodeInvalidFormat, "edge (%d,%d) references missing node", e.Source, e.Target)
		}
	}
	return nil
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes and validates JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
