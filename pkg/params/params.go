// Package params samples scene parameters from a declarative schema.
//
// A schema is a YAML list of named parameters, each drawn from a
// distribution:
//
//	parameters:
//	  - name: num_nodes
//	    distribution: randint
//	    low: 50
//	    high: 200
//	  - name: layout_type
//	    distribution: choice
//	    values: ["spring", "circular"]
//
// Supported distributions are constant (value), randint (low inclusive, high
// exclusive), choice (values) and uniform (loc + scale*U). [Schema.Sample]
// draws every parameter in declaration order from one stream and maps the
// well-known names onto a [Scene]; any other parameter is kept in
// [Scene.Extra] for renderers.
package params

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/netweave/pkg/errors"
	"github.com/matzehuels/netweave/pkg/generate"
	"github.com/matzehuels/netweave/pkg/layout"
	"github.com/matzehuels/netweave/pkg/pipeline"
	"github.com/matzehuels/netweave/pkg/rng"
)

// Bounds on numbers converted to integers. Above 2^53 a float64 no longer
// holds every integer; 2^64 is the first value outside uint64.
const (
	maxExactInt = 1 << 53
	maxSeed     = 1 << 64
)

// Distribution names.
const (
	Constant = "constant"
	RandInt  = "randint"
	Choice   = "choice"
	Uniform  = "uniform"
)

// Well-known parameter names mapped onto Scene fields.
const (
	NameWidth   = "width"
	NameHeight  = "height"
	NameSeed    = "seed"
	NameNetwork = "network_type"
	NameNodes   = "num_nodes"
	NameLayout  = "layout_type"
)

//go:embed default.yaml
var defaultSchema []byte

// Param declares one sampled parameter.
type Param struct {
	Name         string  `yaml:"name"`
	Distribution string  `yaml:"distribution"`
	Value        any     `yaml:"value,omitempty"`
	Low          int     `yaml:"low,omitempty"`
	High         int     `yaml:"high,omitempty"`
	Values       []any   `yaml:"values,omitempty"`
	Loc          float64 `yaml:"loc,omitempty"`
	Scale        float64 `yaml:"scale,omitempty"`

	// Mode is carried through for renderers; "distribution" marks a
	// parameter whose value seeds a per-element distribution downstream.
	Mode string `yaml:"mode,omitempty"`
}

// Schema is an ordered list of parameters.
type Schema struct {
	Parameters []Param `yaml:"parameters"`
}

// Scene is one sampled set of run parameters.
type Scene struct {
	Network string         `json:"network" yaml:"network"`
	Nodes   int            `json:"nodes" yaml:"nodes"`
	Layout  string         `json:"layout" yaml:"layout"`
	Seed    uint64         `json:"seed" yaml:"seed"`
	Width   float64        `json:"width" yaml:"width"`
	Height  float64        `json:"height" yaml:"height"`
	Extra   map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// Default returns the built-in schema.
func Default() *Schema {
	s, err := Parse(defaultSchema)
	if err != nil {
		panic(fmt.Sprintf("params: invalid default schema: %v", err))
	}
	return s
}

// Parse decodes and validates a YAML schema.
func Parse(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid parameter schema")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses a schema file.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "schema file not found: %s", path)
		}
		return nil, err
	}
	return Parse(data)
}

// Validate checks every parameter's distribution arguments.
func (s *Schema) Validate() error {
	seen := make(map[string]bool, len(s.Parameters))
	for _, p := range s.Parameters {
		if p.Name == "" {
			return errors.New(errors.ErrCodeInvalidInput, "parameter without name")
		}
		if seen[p.Name] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate parameter %q", p.Name)
		}
		seen[p.Name] = true

		switch p.Distribution {
		case Constant:
			if p.Value == nil {
				return errors.InvalidParameter("%s: constant needs a value", p.Name)
			}
		case RandInt:
			if p.High <= p.Low {
				return errors.InvalidParameter("%s: randint needs high > low (got [%d, %d))", p.Name, p.Low, p.High)
			}
		case Choice:
			if len(p.Values) == 0 {
				return errors.InvalidParameter("%s: choice needs at least one value", p.Name)
			}
		case Uniform:
			if err := errors.ValidateFinite(p.Name+": scale", p.Scale, 0); err != nil {
				return err
			}
			if math.IsNaN(p.Loc) || math.IsInf(p.Loc, 0) {
				return errors.InvalidParameter("%s: loc=%v is not finite", p.Name, p.Loc)
			}
		default:
			return errors.UnsupportedKind("distribution", p.Distribution)
		}
	}
	return nil
}

// Draw samples one value for p. Constants draw nothing.
func (p Param) Draw(s *rng.Stream) any {
	switch p.Distribution {
	case RandInt:
		return s.Int(p.Low, p.High)
	case Choice:
		return p.Values[s.Int(0, len(p.Values))]
	case Uniform:
		return s.Range(p.Loc, p.Loc+p.Scale)
	default:
		return p.Value
	}
}

// Sample draws every parameter from s in declaration order.
func (s *Schema) Sample(st *rng.Stream) (Scene, error) {
	var sc Scene
	for _, p := range s.Parameters {
		v := p.Draw(st)
		if err := sc.set(p.Name, v); err != nil {
			return Scene{}, err
		}
	}
	return sc, nil
}

func (sc *Scene) set(name string, v any) error {
	var err error
	switch name {
	case NameWidth:
		sc.Width, err = number(name, v)
	case NameHeight:
		sc.Height, err = number(name, v)
	case NameSeed:
		var f float64
		if f, err = number(name, v); err == nil {
			if f < 0 || f >= maxSeed || f != math.Trunc(f) {
				return errors.InvalidParameter("seed=%v must be an integer in [0, 2^64)", v)
			}
			sc.Seed = uint64(f)
		}
	case NameNodes:
		var f float64
		if f, err = number(name, v); err == nil {
			if f != math.Trunc(f) || math.Abs(f) > maxExactInt {
				return errors.InvalidParameter("num_nodes=%v must be an integer", v)
			}
			sc.Nodes = int(f)
		}
	case NameNetwork:
		sc.Network, err = text(name, v)
		if err == nil {
			_, err = generate.ParseKind(sc.Network)
		}
	case NameLayout:
		sc.Layout, err = text(name, v)
		if err == nil {
			_, err = layout.ParseKind(sc.Layout)
		}
	default:
		if sc.Extra == nil {
			sc.Extra = make(map[string]any)
		}
		sc.Extra[name] = v
	}
	return err
}

func number(name string, v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case float64:
		return n, nil
	}
	return 0, errors.InvalidParameter("%s=%v is not a number", name, v)
}

func text(name string, v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return "", errors.InvalidParameter("%s=%v is not a string", name, v)
}

// Apply copies the scene onto pipeline options. Zero scene fields leave the
// options untouched.
func (sc Scene) Apply(opts *pipeline.Options) {
	if sc.Network != "" {
		opts.Network = sc.Network
	}
	if sc.Nodes != 0 {
		opts.Nodes = sc.Nodes
	}
	if sc.Layout != "" {
		opts.Layout = sc.Layout
	}
	if sc.Seed != 0 {
		opts.Seed = sc.Seed
	}
	if sc.Width != 0 {
		opts.Width = sc.Width
	}
	if sc.Height != 0 {
		opts.Height = sc.Height
	}
}

// Options returns pipeline options for the scene.
func (sc Scene) Options() pipeline.Options {
	var opts pipeline.Options
	sc.Apply(&opts)
	return opts
}
