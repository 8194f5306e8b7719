package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ByLCY/snaptext/dsl"
)

// Supported config formats.
const (
	FormatTOML    = "toml"
	FormatYAML    = "yaml"
	FormatCaption = "caption"
)

// FormatOf infers the config format from a file extension.
func FormatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".caption":
		return FormatCaption, nil
	}
	return "", fmt.Errorf("unsupported config file %q (want .toml, .yaml, .yml or .caption)", path)
}

// Load reads path on top of the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (Options, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Options{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("failed to read config file: %w", err)
	}
	opts := Default()
	if err := Decode(data, format, &opts); err != nil {
		return Options{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return opts, nil
}

// Decode merges data in the given format into opts.
func Decode(data []byte, format string, opts *Options) error {
	switch format {
	case FormatTOML:
		_, err := toml.Decode(string(data), opts)
		return err
	case FormatYAML:
		return yaml.Unmarshal(data, opts)
	case FormatCaption:
		doc, err := dsl.Parse(bytes.NewReader(data))
		if err != nil {
			return err
		}
		values, err := doc.Values()
		if err != nil {
			return err
		}
		for key := range values {
			if _, ok := Lookup(key); !ok {
				return invalid(key, fmt.Errorf("unknown option at %s", doc.Position(key)))
			}
		}
		// DSL values are plain scalars; YAML does the typed assignment.
		raw, err := yaml.Marshal(normalizeKeys(values))
		if err != nil {
			return err
		}
		return yaml.Unmarshal(raw, opts)
	}
	return fmt.Errorf("unsupported config format %q", format)
}

// Write encodes opts in the given format.
func Write(w io.Writer, format string, opts Options) error {
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(opts)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(opts); err != nil {
			return err
		}
		return enc.Close()
	case FormatCaption:
		return writeCaption(w, opts)
	}
	return fmt.Errorf("unsupported config format %q", format)
}

func writeCaption(w io.Writer, opts Options) error {
	var b strings.Builder
	b.WriteString("caption v1 {\n")
	for _, p := range Params() {
		v, err := opts.Get(p.Name)
		if err != nil {
			return err
		}
		switch x := v.(type) {
		case string:
			if strings.HasPrefix(x, "#") && p.Name != KeyText {
				fmt.Fprintf(&b, "  %s: %s\n", p.Name, x)
				continue
			}
			fmt.Fprintf(&b, "  %s: %q\n", p.Name, x)
		default:
			fmt.Fprintf(&b, "  %s: %v\n", p.Name, x)
		}
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func normalizeKeys(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[normalizeKey(k)] = v
	}
	return out
}
