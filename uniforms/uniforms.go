// Package uniforms holds the CPU-side copy of the values a shader program
// consumes. The set is fixed by a schema at construction; values can change but
// names cannot be added.
package uniforms

import (
	"errors"
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

var (
	ErrUndeclared   = errors.New("undeclared uniform")
	ErrTypeMismatch = errors.New("uniform type mismatch")
)

// Type is the GLSL type of a uniform.
type Type int

const (
	Float Type = iota
	ColorArray
)

func (t Type) String() string {
	switch t {
	case Float:
		return "float"
	case ColorArray:
		return "vec3[]"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Decl declares one uniform. Len is the array length for ColorArray.
type Decl struct {
	Name string
	Type Type
	Len  int
}

// Uniform is a value slot in a Set.
type Uniform interface {
	Decl() Decl
}

// Scalar is a float uniform.
type Scalar struct {
	decl Decl
	v    float64
}

func (s *Scalar) Decl() Decl       { return s.decl }
func (s *Scalar) Set(v float64)    { s.v = v }
func (s *Scalar) Get() float64     { return s.v }
func (s *Scalar) Float32() float32 { return float32(s.v) }

// Colors is a fixed-length array of RGB colors.
type Colors struct {
	decl Decl
	v    []colorful.Color
}

func (c *Colors) Decl() Decl { return c.decl }

// Set replaces the whole array. len(v) must equal the declared length.
func (c *Colors) Set(v []colorful.Color) error {
	if len(v) != c.decl.Len {
		return fmt.Errorf("uniform %s: want %d colors, got %d", c.decl.Name, c.decl.Len, len(v))
	}
	copy(c.v, v)
	return nil
}

// Get returns a copy of the array.
func (c *Colors) Get() []colorful.Color {
	out := make([]colorful.Color, len(c.v))
	copy(out, c.v)
	return out
}

// Flat returns the array as packed RGB float32 triples for upload.
func (c *Colors) Flat() []float32 {
	out := make([]float32, 0, 3*len(c.v))
	for _, col := range c.v {
		out = append(out, float32(col.R), float32(col.G), float32(col.B))
	}
	return out
}

// Set is the uniform set of one shader program binding.
type Set struct {
	order  []Uniform
	byName map[string]Uniform
}

// NewSet allocates a zero value for every declaration.
func NewSet(schema []Decl) (*Set, error) {
	s := &Set{byName: make(map[string]Uniform, len(schema))}
	for _, d := range schema {
		if _, dup := s.byName[d.Name]; dup {
			return nil, fmt.Errorf("uniform %s declared twice", d.Name)
		}
		var u Uniform
		switch d.Type {
		case Float:
			u = &Scalar{decl: d}
		case ColorArray:
			if d.Len <= 0 {
				return nil, fmt.Errorf("uniform %s: array length %d", d.Name, d.Len)
			}
			u = &Colors{decl: d, v: make([]colorful.Color, d.Len)}
		default:
			return nil, fmt.Errorf("uniform %s: %w: %v", d.Name, ErrTypeMismatch, d.Type)
		}
		s.byName[d.Name] = u
		s.order = append(s.order, u)
	}
	return s, nil
}

// Scalar resolves the float uniform called name. Resolve once at wiring time
// and keep the handle; Set on the handle is a plain store.
func (s *Set) Scalar(name string) (*Scalar, error) {
	u, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUndeclared, name)
	}
	sc, ok := u.(*Scalar)
	if !ok {
		return nil, fmt.Errorf("%s is %v: %w", name, u.Decl().Type, ErrTypeMismatch)
	}
	return sc, nil
}

// Colors resolves the color array uniform called name.
func (s *Set) Colors(name string) (*Colors, error) {
	u, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUndeclared, name)
	}
	c, ok := u.(*Colors)
	if !ok {
		return nil, fmt.Errorf("%s is %v: %w", name, u.Decl().Type, ErrTypeMismatch)
	}
	return c, nil
}

// SetFloat is a convenience for one-off writes by name.
func (s *Set) SetFloat(name string, v float64) error {
	sc, err := s.Scalar(name)
	if err != nil {
		return err
	}
	sc.Set(v)
	return nil
}

// Has reports whether name is declared.
func (s *Set) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// All returns the uniforms in schema order.
func (s *Set) All() []Uniform {
	out := make([]Uniform, len(s.order))
	copy(out, s.order)
	return out
}
