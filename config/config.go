// Package config holds the caption options, their defaults and ranges, and
// loaders for TOML, YAML and caption DSL files.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/snaptext/layout"
)

// ErrInvalidOption is returned (wrapped) for out-of-range or malformed options.
var ErrInvalidOption = errors.New("invalid option")

// Backend names.
const (
	BackendCanvas = "canvas"
	BackendRaster = "raster"
)

// Options configures one caption call. Field keys mirror Params.
type Options struct {
	Text             string  `toml:"text" yaml:"text" json:"text"`
	FontName         string  `toml:"font_name" yaml:"font_name" json:"font_name"`
	FontSizeRatio    float64 `toml:"font_size_ratio" yaml:"font_size_ratio" json:"font_size_ratio"`
	Placement        string  `toml:"vertical_placement" yaml:"vertical_placement" json:"vertical_placement"`
	CustomPercentage float64 `toml:"custom_vertical_percentage" yaml:"custom_vertical_percentage" json:"custom_vertical_percentage"`
	TextColor        string  `toml:"text_color" yaml:"text_color" json:"text_color"`
	PaddingRatio     float64 `toml:"vertical_padding_ratio_of_size" yaml:"vertical_padding_ratio_of_size" json:"vertical_padding_ratio_of_size"`
	LineSpacing      int     `toml:"line_spacing" yaml:"line_spacing" json:"line_spacing"`
	BarColor         string  `toml:"bar_color" yaml:"bar_color" json:"bar_color"`
	BarAlpha         float64 `toml:"bar_alpha" yaml:"bar_alpha" json:"bar_alpha"`
	Backend          string  `toml:"backend" yaml:"backend" json:"backend"`
	Workers          int     `toml:"workers" yaml:"workers" json:"workers"`
}

// Default returns the stock caption style: white text on a half-transparent
// black bar in the middle of the frame.
func Default() Options {
	return Options{
		Text:             "Your Text Here",
		FontName:         "arial.ttf",
		FontSizeRatio:    0.05,
		Placement:        string(layout.PolicyMiddle),
		CustomPercentage: 0,
		TextColor:        "#FFFFFF",
		PaddingRatio:     0.7,
		LineSpacing:      4,
		BarColor:         "#000000",
		BarAlpha:         0.5,
		Backend:          BackendCanvas,
		Workers:          1,
	}
}

// Policy returns the parsed placement policy; unknown names map to middle.
func (o Options) Policy() layout.Policy {
	p, _ := layout.ParsePolicy(o.Placement)
	return p
}

// Colors parses the text and bar colors.
func (o Options) Colors() (text, bar RGB, err error) {
	if text, err = ParseHex(o.TextColor); err != nil {
		return RGB{}, RGB{}, invalid(KeyTextColor, err)
	}
	if bar, err = ParseHex(o.BarColor); err != nil {
		return RGB{}, RGB{}, invalid(KeyBarColor, err)
	}
	return text, bar, nil
}

// BarAlpha8 returns the bar opacity scaled to 0..255 (truncated).
func (o Options) BarAlpha8() uint8 {
	return uint8(clamp(o.BarAlpha, 0, 1) * 255)
}

// Validate checks every option against its declared range.
func (o Options) Validate() error {
	var errs []error
	for _, p := range Params() {
		v, err := o.Get(p.Name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := p.check(v); err != nil {
			errs = append(errs, err)
		}
	}
	if _, _, err := o.Colors(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (p Param) check(v any) error {
	switch x := v.(type) {
	case float64:
		return p.checkRange(x)
	case int:
		return p.checkRange(float64(x))
	case string:
		if len(p.Choices) == 0 || p.lenient {
			return nil
		}
		for _, c := range p.Choices {
			if strings.EqualFold(strings.TrimSpace(x), c) {
				return nil
			}
		}
		return invalid(p.Name, fmt.Errorf("%q is not one of %s", x, strings.Join(p.Choices, ", ")))
	}
	return nil
}

func (p Param) checkRange(v float64) error {
	if p.Min != nil && v < *p.Min {
		return invalid(p.Name, fmt.Errorf("%g is below %g", v, *p.Min))
	}
	if p.Max != nil && v > *p.Max {
		return invalid(p.Name, fmt.Errorf("%g is above %g", v, *p.Max))
	}
	return nil
}

// Get returns the value of the option called name.
func (o Options) Get(name string) (any, error) {
	switch normalizeKey(name) {
	case KeyText:
		return o.Text, nil
	case KeyFontName:
		return o.FontName, nil
	case KeyFontSizeRatio:
		return o.FontSizeRatio, nil
	case KeyPlacement:
		return o.Placement, nil
	case KeyCustomPercentage:
		return o.CustomPercentage, nil
	case KeyTextColor:
		return o.TextColor, nil
	case KeyPaddingRatio:
		return o.PaddingRatio, nil
	case KeyLineSpacing:
		return o.LineSpacing, nil
	case KeyBarColor:
		return o.BarColor, nil
	case KeyBarAlpha:
		return o.BarAlpha, nil
	case KeyBackend:
		return o.Backend, nil
	case KeyWorkers:
		return o.Workers, nil
	}
	return nil, invalid(name, errors.New("unknown option"))
}

// Set parses value and assigns it to the option called name. Names may use
// dashes instead of underscores, so CLI flag names work as-is.
func (o *Options) Set(name, value string) error {
	key := normalizeKey(name)
	p, ok := Lookup(key)
	if !ok {
		return invalid(name, errors.New("unknown option"))
	}
	switch p.Type {
	case TypeFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return invalid(key, err)
		}
		switch key {
		case KeyFontSizeRatio:
			o.FontSizeRatio = f
		case KeyCustomPercentage:
			o.CustomPercentage = f
		case KeyPaddingRatio:
			o.PaddingRatio = f
		case KeyBarAlpha:
			o.BarAlpha = f
		}
	case TypeInt:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return invalid(key, err)
		}
		switch key {
		case KeyLineSpacing:
			o.LineSpacing = n
		case KeyWorkers:
			o.Workers = n
		}
	default:
		switch key {
		case KeyText:
			o.Text = value
		case KeyFontName:
			o.FontName = strings.TrimSpace(value)
		case KeyPlacement:
			o.Placement = strings.ToLower(strings.TrimSpace(value))
		case KeyTextColor:
			o.TextColor = strings.TrimSpace(value)
		case KeyBarColor:
			o.BarColor = strings.TrimSpace(value)
		case KeyBackend:
			o.Backend = strings.ToLower(strings.TrimSpace(value))
		}
	}
	return nil
}

func normalizeKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
}

func invalid(name string, err error) error {
	return fmt.Errorf("%w %s: %v", ErrInvalidOption, name, err)
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
