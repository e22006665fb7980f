package params

// Parameter names shared by the scene, the panel and the config file.
const (
	ColorPaletteIndex = "colorPaletteIndex"
	Elevation         = "elevation"
	GeometrySpeed     = "geometrySpeed"
	ColorSpeed        = "colorSpeed"
	Tilt              = "tilt"
	Incline           = "incline"
	ColorFrequencyX   = "colorFrequencyX"
	ColorFrequencyY   = "colorFrequencyY"
	Color1            = "color1"
	Color2            = "color2"
	Color3            = "color3"
	Color4            = "color4"
	Color5            = "color5"
)

// ColorNames lists the palette color parameters in palette order.
var ColorNames = [5]string{Color1, Color2, Color3, Color4, Color5}

// Defaults holds the startup value of every parameter. Scalars are float64,
// colors are "#rrggbb" strings.
type Defaults struct {
	Scalars map[string]float64
	Colors  map[string]string
}

// DefaultValues returns the built-in startup values.
func DefaultValues() Defaults {
	return Defaults{
		Scalars: map[string]float64{
			ColorPaletteIndex: 10,
			Elevation:         0.3,
			GeometrySpeed:     0.1,
			ColorSpeed:        0.001,
			Tilt:              0,
			Incline:           0.1,
			ColorFrequencyX:   0.3,
			ColorFrequencyY:   0.4,
		},
		Colors: map[string]string{
			Color1: "#cda3ff",
			Color2: "#6ec3f4",
			Color3: "#eae2ff",
			Color4: "#b9beff",
			Color5: "#c3e4ff",
		},
	}
}

var scalarOrder = []string{
	ColorPaletteIndex, Elevation, GeometrySpeed, ColorSpeed, Tilt, Incline,
	ColorFrequencyX, ColorFrequencyY,
}

// NewDefaultStore builds a Store holding every parameter with the values in d.
// Missing entries fall back to DefaultValues.
func NewDefaultStore(d Defaults) (*Store, error) {
	base := DefaultValues()
	s := NewStore()
	for _, name := range scalarOrder {
		v, ok := d.Scalars[name]
		if !ok {
			v = base.Scalars[name]
		}
		if err := s.Add(NewScalar(name, v)); err != nil {
			return nil, err
		}
	}
	for _, name := range ColorNames {
		hex, ok := d.Colors[name]
		if !ok {
			hex = base.Colors[name]
		}
		p, err := NewColor(name, hex)
		if err != nil {
			return nil, err
		}
		if err := s.Add(p); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Known reports whether name is one of the built-in parameters and its kind.
func Known(name string) (Kind, bool) {
	for _, n := range scalarOrder {
		if n == name {
			return KindScalar, true
		}
	}
	for _, n := range ColorNames {
		if n == name {
			return KindColor, true
		}
	}
	return 0, false
}
