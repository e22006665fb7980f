// Package palette produces the five-color palette consumed by the fragment
// program, either from five color parameters or from a lookup table.
package palette

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/richinsley/goshaderplane/params"
)

// Size is the number of colors in a palette.
const Size = 5

var ErrIndexRange = errors.New("palette index out of range")

// Palette is an ordered set of exactly five colors.
type Palette [Size]colorful.Color

// Hex returns the palette as "#rrggbb" strings.
func (p Palette) Hex() [Size]string {
	var out [Size]string
	for i, c := range p {
		out[i] = c.Clamped().Hex()
	}
	return out
}

// Source computes the current palette. Every call recomputes all five entries.
type Source interface {
	Palette() (Palette, error)
}

// Custom reads the palette from five color parameters in fixed order.
type Custom struct {
	Colors [Size]*params.Param
}

// NewCustom resolves the five color parameters from store.
func NewCustom(store *params.Store, names [Size]string) (*Custom, error) {
	c := &Custom{}
	for i, name := range names {
		p, err := store.Color(name)
		if err != nil {
			return nil, err
		}
		c.Colors[i] = p
	}
	return c, nil
}

func (c *Custom) Palette() (Palette, error) {
	var out Palette
	for i, p := range c.Colors {
		out[i] = p.Color()
	}
	return out, nil
}

// Table is a static list of predefined palettes.
type Table []Palette

//go:embed palettes.json
var builtinJSON []byte

// Builtin returns the embedded palette table.
func Builtin() Table {
	t, err := ParseTable(builtinJSON)
	if err != nil {
		panic(fmt.Sprintf("palette: embedded table: %v", err))
	}
	return t
}

// ParseTable decodes a JSON array of five-color hex arrays.
func ParseTable(data []byte) (Table, error) {
	var raw [][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode palette table: %w", err)
	}
	t := make(Table, 0, len(raw))
	for i, entry := range raw {
		if len(entry) != Size {
			return nil, fmt.Errorf("palette %d: want %d colors, got %d", i, Size, len(entry))
		}
		var p Palette
		for j, hex := range entry {
			c, err := colorful.Hex(hex)
			if err != nil {
				return nil, fmt.Errorf("palette %d color %d: %w", i, j, err)
			}
			p[j] = c
		}
		t = append(t, p)
	}
	return t, nil
}

// At returns palette i.
func (t Table) At(i int) (Palette, error) {
	if i < 0 || i >= len(t) {
		return Palette{}, fmt.Errorf("%w: %d not in [0,%d)", ErrIndexRange, i, len(t))
	}
	return t[i], nil
}

// Indexed selects a palette from Table by the value of a scalar parameter.
type Indexed struct {
	Table Table
	Index *params.Param
}

func (x *Indexed) Palette() (Palette, error) {
	return x.Table.At(int(math.Round(x.Index.Float())))
}

// Palette selection modes.
const (
	ModeCustom  = "custom"
	ModeIndexed = "indexed"
)
