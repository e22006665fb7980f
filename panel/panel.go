// Package panel binds parameters to interactive widgets. Each widget edit
// writes its parameter and then runs the widget's push callback, which
// forwards the new state into shader uniforms.
package panel

import (
	"errors"
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/richinsley/goshaderplane/palette"
	"github.com/richinsley/goshaderplane/params"
	"github.com/richinsley/goshaderplane/uniforms"
	"github.com/rs/zerolog"
)

var ErrDuplicateWidget = errors.New("widget already bound")

// Kind is the widget type.
type Kind int

const (
	Slider Kind = iota
	ColorPicker
)

func (k Kind) String() string {
	switch k {
	case Slider:
		return "slider"
	case ColorPicker:
		return "color"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Push forwards an edited parameter somewhere else, typically a uniform.
type Push func(p *params.Param) error

// ScalarPush writes the parameter's value straight into u.
func ScalarPush(u *uniforms.Scalar) Push {
	return func(p *params.Param) error {
		u.Set(p.Float())
		return nil
	}
}

// PalettePush recomputes the whole palette from src and overwrites u. The edited
// parameter is ignored: the uniform is a single array and is always resubmitted
// in full.
func PalettePush(src palette.Source, u *uniforms.Colors) Push {
	return func(*params.Param) error {
		pal, err := src.Palette()
		if err != nil {
			return err
		}
		return u.Set(pal[:])
	}
}

// SliderConfig declares a scalar widget.
type SliderConfig struct {
	Label string
	Min   float64
	Max   float64
	Step  float64
}

// Widget is one control bound to one parameter. A widget without a push is
// inert: edits update the parameter and nothing else.
type Widget struct {
	Param *params.Param
	Label string
	Kind  Kind

	push []Push
	err  error
}

// OnChange adds a push callback and returns w for chaining.
func (w *Widget) OnChange(fn Push) *Widget {
	w.push = append(w.push, fn)
	return w
}

// Wired reports whether any push callback is attached.
func (w *Widget) Wired() bool { return len(w.push) > 0 }

func (w *Widget) run(p *params.Param) {
	w.err = nil
	for _, fn := range w.push {
		if err := fn(p); err != nil {
			w.err = fmt.Errorf("push %s: %w", p.Name(), err)
			return
		}
	}
}

// Panel is the list of widgets of a session.
type Panel struct {
	store   *params.Store
	widgets []*Widget
	byName  map[string]*Widget
	focus   int
	log     zerolog.Logger
}

func New(store *params.Store, log zerolog.Logger) *Panel {
	return &Panel{
		store:  store,
		byName: make(map[string]*Widget),
		log:    log,
	}
}

// AddSlider binds a slider to the scalar parameter name and applies the
// slider's range to it.
func (p *Panel) AddSlider(name string, cfg SliderConfig) (*Widget, error) {
	param, err := p.store.Scalar(name)
	if err != nil {
		return nil, fmt.Errorf("slider: %w", err)
	}
	if err := param.Constrain(cfg.Min, cfg.Max, cfg.Step); err != nil {
		return nil, fmt.Errorf("slider: %w", err)
	}
	return p.add(param, cfg.Label, Slider)
}

// AddColor binds a color picker to the color parameter name.
func (p *Panel) AddColor(name, label string) (*Widget, error) {
	param, err := p.store.Color(name)
	if err != nil {
		return nil, fmt.Errorf("color picker: %w", err)
	}
	return p.add(param, label, ColorPicker)
}

func (p *Panel) add(param *params.Param, label string, kind Kind) (*Widget, error) {
	if _, ok := p.byName[param.Name()]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateWidget, param.Name())
	}
	if label == "" {
		label = param.Name()
	}
	w := &Widget{Param: param, Label: label, Kind: kind}
	param.Subscribe(w.run)
	p.widgets = append(p.widgets, w)
	p.byName[param.Name()] = w
	return w, nil
}

// Widget returns the widget bound to parameter name.
func (p *Panel) Widget(name string) (*Widget, error) {
	w, ok := p.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: no widget for %s", params.ErrUnknownParam, name)
	}
	return w, nil
}

// Widgets returns the widgets in registration order.
func (p *Panel) Widgets() []*Widget {
	out := make([]*Widget, len(p.widgets))
	copy(out, p.widgets)
	return out
}

// SetFloat edits a slider. The value is clamped and quantized by the parameter.
func (p *Panel) SetFloat(name string, v float64) error {
	w, err := p.Widget(name)
	if err != nil {
		return err
	}
	if _, err := w.Param.SetFloat(v); err != nil {
		return err
	}
	return p.settle(w)
}

// SetColor edits a color picker.
func (p *Panel) SetColor(name string, c colorful.Color) error {
	w, err := p.Widget(name)
	if err != nil {
		return err
	}
	if err := w.Param.SetColor(c); err != nil {
		return err
	}
	return p.settle(w)
}

// SetHex edits a color picker from a "#rrggbb" string.
func (p *Panel) SetHex(name, hex string) error {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return p.SetColor(name, c)
}

// Reset restores a widget's parameter to its startup value.
func (p *Panel) Reset(name string) error {
	w, err := p.Widget(name)
	if err != nil {
		return err
	}
	w.Param.Reset()
	return p.settle(w)
}

// Sync runs every wired push once with the current parameter values.
func (p *Panel) Sync() error {
	for _, w := range p.widgets {
		w.run(w.Param)
		if w.err != nil {
			return w.err
		}
	}
	return nil
}

func (p *Panel) settle(w *Widget) error {
	ev := p.log.Debug().Str("param", w.Param.Name())
	switch w.Kind {
	case Slider:
		ev = ev.Float64("value", w.Param.Float())
	case ColorPicker:
		ev = ev.Str("value", w.Param.Hex())
	}
	ev.Bool("wired", w.Wired()).Msg("parameter edited")
	if w.err != nil {
		p.log.Error().Err(w.err).Msg("push failed")
	}
	return w.err
}

// Keyboard focus.

// Focused returns the widget that receives Nudge, or nil for an empty panel.
func (p *Panel) Focused() *Widget {
	if len(p.widgets) == 0 {
		return nil
	}
	return p.widgets[p.focus]
}

func (p *Panel) FocusNext() { p.moveFocus(1) }
func (p *Panel) FocusPrev() { p.moveFocus(-1) }

func (p *Panel) moveFocus(d int) {
	n := len(p.widgets)
	if n == 0 {
		return
	}
	p.focus = ((p.focus+d)%n + n) % n
	w := p.widgets[p.focus]
	p.log.Info().Str("widget", w.Label).Str("kind", w.Kind.String()).Msg("focus")
}

// HueStep is how far one color nudge rotates the hue, in degrees.
const HueStep = 10.0

// Nudge moves the focused widget by steps: sliders by steps×Step, colors by
// steps×HueStep degrees of hue.
func (p *Panel) Nudge(steps int) error {
	w := p.Focused()
	if w == nil {
		return nil
	}
	switch w.Kind {
	case Slider:
		_, _, step, ok := w.Param.Range()
		if !ok || step == 0 {
			step = 0.01
		}
		return p.SetFloat(w.Param.Name(), w.Param.Float()+float64(steps)*step)
	case ColorPicker:
		h, s, v := w.Param.Color().Hsv()
		h = math.Mod(h+float64(steps)*HueStep, 360)
		if h < 0 {
			h += 360
		}
		return p.SetColor(w.Param.Name(), colorful.Hsv(h, s, v))
	}
	return nil
}

// ResetFocused restores the focused widget's startup value.
func (p *Panel) ResetFocused() error {
	w := p.Focused()
	if w == nil {
		return nil
	}
	return p.Reset(w.Param.Name())
}

// Dump logs every widget and its current value.
func (p *Panel) Dump() {
	for i, w := range p.widgets {
		ev := p.log.Info().Int("index", i).Str("label", w.Label).Bool("wired", w.Wired())
		if w.Kind == Slider {
			ev = ev.Float64("value", w.Param.Float())
		} else {
			ev = ev.Str("value", w.Param.Hex())
		}
		ev.Msg("widget")
	}
}
