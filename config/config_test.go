package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/snaptext/layout"
)

func TestDefaultsValidate(t *testing.T) {
	opts := Default()
	require.NoError(t, opts.Validate())
	assert.Equal(t, layout.PolicyMiddle, opts.Policy())
	assert.Equal(t, uint8(127), opts.BarAlpha8())

	for _, p := range Params() {
		v, err := opts.Get(p.Name)
		require.NoError(t, err)
		assert.Equal(t, p.Default, v, p.Name)
	}
}

func TestSetAndGet(t *testing.T) {
	opts := Default()
	require.NoError(t, opts.Set("font-size-ratio", "0.1"))
	require.NoError(t, opts.Set("LINE_SPACING", " 8 "))
	require.NoError(t, opts.Set("vertical_placement", " Bottom "))
	require.NoError(t, opts.Set("text", "  keep spaces  "))

	assert.Equal(t, 0.1, opts.FontSizeRatio)
	assert.Equal(t, 8, opts.LineSpacing)
	assert.Equal(t, layout.PolicyBottom, opts.Policy())
	assert.Equal(t, "  keep spaces  ", opts.Text)

	require.ErrorIs(t, opts.Set("line_spacing", "eight"), ErrInvalidOption)
	require.ErrorIs(t, opts.Set("nope", "1"), ErrInvalidOption)
	_, err := opts.Get("nope")
	require.ErrorIs(t, err, ErrInvalidOption)
}

func TestValidateRanges(t *testing.T) {
	cases := map[string]func(*Options){
		"font size ratio": func(o *Options) { o.FontSizeRatio = 0.5 },
		"custom percent":  func(o *Options) { o.CustomPercentage = -1 },
		"bar alpha":       func(o *Options) { o.BarAlpha = 1.5 },
		"workers":         func(o *Options) { o.Workers = 0 },
		"backend":         func(o *Options) { o.Backend = "vulkan" },
		"text color":      func(o *Options) { o.TextColor = "#12345G" },
		"bar color":       func(o *Options) { o.BarColor = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			opts := Default()
			mutate(&opts)
			require.ErrorIs(t, opts.Validate(), ErrInvalidOption)
		})
	}
}

func TestUnknownPlacementIsLenient(t *testing.T) {
	opts := Default()
	opts.Placement = "diagonal"
	require.NoError(t, opts.Validate())
	assert.Equal(t, layout.PolicyMiddle, opts.Policy())
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#FF8000")
	require.NoError(t, err)
	assert.Equal(t, RGB{R: 255, G: 128}, c)
	assert.Equal(t, "#FF8000", c.Hex())

	c, err = ParseHex("fff")
	require.NoError(t, err)
	assert.Equal(t, RGB{R: 255, G: 255, B: 255}, c)

	_, err = ParseHex("#GG0000")
	require.Error(t, err)

	_, _, _, a := c.RGBA()
	assert.Equal(t, uint32(0xffff), a)
	assert.Equal(t, uint8(10), c.WithAlpha(10).A)
}

func TestLoadFormats(t *testing.T) {
	files := map[string]string{
		"style.toml": `
text = "From TOML"
vertical_placement = "bottom"
bar_alpha = 0.25
line_spacing = 6
`,
		"style.yaml": `
text: From YAML
vertical_placement: bottom
bar_alpha: 0.25
line_spacing: 6
`,
		"style.caption": `
caption v1 {
  "From CAPTION"
  vertical_placement: bottom
  bar_alpha: 0.25
  line_spacing: 6
}
`,
	}
	dir := t.TempDir()
	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
			opts, err := Load(path)
			require.NoError(t, err)
			assert.Contains(t, opts.Text, "From ")
			assert.Equal(t, "bottom", opts.Placement)
			assert.Equal(t, 0.25, opts.BarAlpha)
			assert.Equal(t, 6, opts.LineSpacing)
			// 未出现的键保持默认值。
			assert.Equal(t, Default().FontSizeRatio, opts.FontSizeRatio)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "style.json"))
	require.Error(t, err)

	path := filepath.Join(dir, "bad.caption")
	require.NoError(t, os.WriteFile(path, []byte("caption { colour: #fff }"), 0o644))
	_, err = Load(path)
	require.ErrorIs(t, err, ErrInvalidOption)
}

func TestWriteRoundTrip(t *testing.T) {
	want := Default()
	want.Text = "line one\nline \"two\""
	want.Placement = "custom"
	want.CustomPercentage = 12.5
	want.BarColor = "#202020"

	for _, format := range []string{FormatTOML, FormatYAML, FormatCaption} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, format, want))
			got := Default()
			require.NoError(t, Decode(buf.Bytes(), format, &got))
			assert.Equal(t, want, got)
		})
	}
}
