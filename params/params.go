package params

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

var (
	ErrUnknownParam   = errors.New("unknown parameter")
	ErrDuplicateParam = errors.New("duplicate parameter")
	ErrKindMismatch   = errors.New("parameter kind mismatch")
	ErrOutOfRange     = errors.New("parameter value out of range")
)

// Kind is the value kind a Param carries.
type Kind int

const (
	KindScalar Kind = iota
	KindColor
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindColor:
		return "color"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Observer is called after every edit of the parameter it is subscribed to.
type Observer func(p *Param)

// Param is a named tunable value. Scalars carry an optional range and step that
// every edit is clamped and quantized to; colors are plain RGB triples.
type Param struct {
	name string
	kind Kind

	scalar    float64
	color     colorful.Color
	defScalar float64
	defColor  colorful.Color

	constrained bool
	min, max    float64
	step        float64
	decimals    int

	observers []Observer
}

// NewScalar creates a scalar parameter holding def.
func NewScalar(name string, def float64) *Param {
	return &Param{name: name, kind: KindScalar, scalar: def, defScalar: def}
}

// NewColor creates a color parameter from a "#rrggbb" string.
func NewColor(name, hex string) (*Param, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("parameter %s: %w", name, err)
	}
	return &Param{name: name, kind: KindColor, color: c, defColor: c}, nil
}

func (p *Param) Name() string { return p.name }
func (p *Param) Kind() Kind   { return p.kind }

// Constrain sets the [min, max] range and step granularity applied to every
// subsequent SetFloat. The current value is left untouched.
func (p *Param) Constrain(min, max, step float64) error {
	if p.kind != KindScalar {
		return fmt.Errorf("constrain %s: %w", p.name, ErrKindMismatch)
	}
	if max < min {
		return fmt.Errorf("constrain %s: max %v < min %v", p.name, max, min)
	}
	if step < 0 {
		return fmt.Errorf("constrain %s: negative step %v", p.name, step)
	}
	p.constrained = true
	p.min, p.max, p.step = min, max, step
	p.decimals = decimalsOf(step)
	return nil
}

// CheckRange fails with ErrOutOfRange unless v is finite and within [min, max].
func CheckRange(name string, v, min, max float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < min || v > max {
		return fmt.Errorf("%w: %s = %v not in [%v, %v]", ErrOutOfRange, name, v, min, max)
	}
	return nil
}

// Range returns the constraint of a scalar parameter. ok is false when the
// parameter was never constrained.
func (p *Param) Range() (min, max, step float64, ok bool) {
	return p.min, p.max, p.step, p.constrained
}

func (p *Param) Float() float64        { return p.scalar }
func (p *Param) Color() colorful.Color { return p.color }

// Hex returns the color value formatted as "#rrggbb".
func (p *Param) Hex() string { return p.color.Clamped().Hex() }

// SetFloat clamps and quantizes v, stores it, notifies observers and returns the
// stored value.
func (p *Param) SetFloat(v float64) (float64, error) {
	if p.kind != KindScalar {
		return 0, fmt.Errorf("set %s: %w", p.name, ErrKindMismatch)
	}
	p.scalar = p.Quantize(v)
	p.notify()
	return p.scalar, nil
}

// SetColor stores c and notifies observers.
func (p *Param) SetColor(c colorful.Color) error {
	if p.kind != KindColor {
		return fmt.Errorf("set %s: %w", p.name, ErrKindMismatch)
	}
	p.color = c.Clamped()
	p.notify()
	return nil
}

// SetHex parses a "#rrggbb" color and stores it.
func (p *Param) SetHex(hex string) error {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fmt.Errorf("set %s: %w", p.name, err)
	}
	return p.SetColor(c)
}

// Reset restores the value the parameter was created with.
func (p *Param) Reset() {
	switch p.kind {
	case KindScalar:
		p.scalar = p.defScalar
	case KindColor:
		p.color = p.defColor
	}
	p.notify()
}

// Subscribe registers fn to run after every edit.
func (p *Param) Subscribe(fn Observer) {
	p.observers = append(p.observers, fn)
}

func (p *Param) notify() {
	for _, fn := range p.observers {
		fn(p)
	}
}

// Quantize maps v onto the parameter's step grid starting at min and clamps it
// to [min, max]. Unconstrained parameters return v unchanged.
func (p *Param) Quantize(v float64) float64 {
	if math.IsNaN(v) {
		return p.scalar
	}
	if !p.constrained {
		return v
	}
	if p.step > 0 {
		n := math.Round((v - p.min) / p.step)
		v = p.min + n*p.step
		// Drop the binary noise the multiplication leaves behind so 0.3 stays 0.3.
		v, _ = strconv.ParseFloat(strconv.FormatFloat(v, 'f', p.decimals, 64), 64)
	}
	if v < p.min {
		v = p.min
	}
	if v > p.max {
		v = p.max
	}
	return v
}

func decimalsOf(step float64) int {
	s := strconv.FormatFloat(step, 'f', -1, 64)
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return 0
	}
	return len(s) - i - 1
}

// Store is the set of parameters of a session, in registration order.
type Store struct {
	params map[string]*Param
	order  []string
}

func NewStore() *Store {
	return &Store{params: make(map[string]*Param)}
}

// Add registers p. Names are unique.
func (s *Store) Add(p *Param) error {
	if _, ok := s.params[p.name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateParam, p.name)
	}
	s.params[p.name] = p
	s.order = append(s.order, p.name)
	return nil
}

// Lookup returns the parameter called name.
func (s *Store) Lookup(name string) (*Param, error) {
	p, ok := s.params[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}
	return p, nil
}

// Scalar returns the scalar parameter called name.
func (s *Store) Scalar(name string) (*Param, error) {
	p, err := s.Lookup(name)
	if err != nil {
		return nil, err
	}
	if p.kind != KindScalar {
		return nil, fmt.Errorf("%s is a %s: %w", name, p.kind, ErrKindMismatch)
	}
	return p, nil
}

// Color returns the color parameter called name.
func (s *Store) Color(name string) (*Param, error) {
	p, err := s.Lookup(name)
	if err != nil {
		return nil, err
	}
	if p.kind != KindColor {
		return nil, fmt.Errorf("%s is a %s: %w", name, p.kind, ErrKindMismatch)
	}
	return p, nil
}

// Names returns the parameter names in registration order.
func (s *Store) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Store) Len() int { return len(s.order) }
