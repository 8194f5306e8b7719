package config

// Param describes one caption option as exposed to hosts (node metadata,
// CLI flags, HTTP form fields). Names use snake_case.
type Param struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Default   any      `json:"default"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	Step      float64  `json:"step,omitempty"`
	Choices   []string `json:"choices,omitempty"`
	Multiline bool     `json:"multiline,omitempty"`
	Help      string   `json:"help,omitempty"`

	// lenient choices are advisory: unknown values are accepted and left to
	// the consumer's own fallback.
	lenient bool
}

// Param types.
const (
	TypeString = "STRING"
	TypeFloat  = "FLOAT"
	TypeInt    = "INT"
	TypeChoice = "CHOICE"
)

// Option names.
const (
	KeyText             = "text"
	KeyFontName         = "font_name"
	KeyFontSizeRatio    = "font_size_ratio"
	KeyPlacement        = "vertical_placement"
	KeyCustomPercentage = "custom_vertical_percentage"
	KeyTextColor        = "text_color"
	KeyPaddingRatio     = "vertical_padding_ratio_of_size"
	KeyLineSpacing      = "line_spacing"
	KeyBarColor         = "bar_color"
	KeyBarAlpha         = "bar_alpha"
	KeyBackend          = "backend"
	KeyWorkers          = "workers"
)

func bound(v float64) *float64 { return &v }

// Params returns the option table in declaration order.
func Params() []Param {
	d := Default()
	return []Param{
		{Name: KeyText, Type: TypeString, Default: d.Text, Help: "caption text; \\n starts a new paragraph"},
		{Name: KeyFontName, Type: TypeString, Default: d.FontName, Help: "font file name, path or embed:<name>"},
		{Name: KeyFontSizeRatio, Type: TypeFloat, Default: d.FontSizeRatio, Min: bound(0.01), Max: bound(0.2), Step: 0.005, Help: "font pixel size as a fraction of frame width"},
		{Name: KeyPlacement, Type: TypeChoice, Default: d.Placement, Choices: []string{"top", "middle", "bottom", "custom"}, Help: "vertical bar placement; unknown values behave as middle", lenient: true},
		{Name: KeyCustomPercentage, Type: TypeFloat, Default: d.CustomPercentage, Min: bound(0), Max: bound(100), Step: 0.1, Help: "custom placement: 0 = bottom, 100 = top"},
		{Name: KeyTextColor, Type: TypeString, Default: d.TextColor, Help: "text color as #RRGGBB"},
		{Name: KeyPaddingRatio, Type: TypeFloat, Default: d.PaddingRatio, Min: bound(0), Max: bound(3), Step: 0.05, Help: "extra bar height as a fraction of font size"},
		{Name: KeyLineSpacing, Type: TypeInt, Default: d.LineSpacing, Min: bound(0), Max: bound(50), Step: 1, Help: "pixels between wrapped lines"},
		{Name: KeyBarColor, Type: TypeString, Default: d.BarColor, Help: "bar color as #RRGGBB"},
		{Name: KeyBarAlpha, Type: TypeFloat, Default: d.BarAlpha, Min: bound(0), Max: bound(1), Step: 0.01, Help: "bar opacity"},
		{Name: KeyBackend, Type: TypeChoice, Default: d.Backend, Choices: []string{BackendCanvas, BackendRaster}, Help: "glyph layout backend"},
		{Name: KeyWorkers, Type: TypeInt, Default: d.Workers, Min: bound(1), Max: bound(64), Step: 1, Help: "frames processed concurrently"},
	}
}

// Lookup returns the parameter called name.
func Lookup(name string) (Param, bool) {
	name = normalizeKey(name)
	for _, p := range Params() {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}
