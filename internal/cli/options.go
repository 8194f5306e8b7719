package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ByLCY/snaptext/config"
)

// styleFlags registers one flag per caption option ("font_name" → --font-name)
// plus --config. Only flags the user set override the loaded file.
type styleFlags struct {
	configPath string
	values     map[string]*string
}

var shorthands = map[string]string{
	config.KeyText:     "t",
	config.KeyFontName: "f",
}

func addStyleFlags(cmd *cobra.Command) *styleFlags {
	sf := &styleFlags{values: map[string]*string{}}
	cmd.Flags().StringVarP(&sf.configPath, "config", "c", "", "style file (.toml, .yaml, .yml or .caption)")
	for _, p := range config.Params() {
		help := fmt.Sprintf("%s (default %v)", p.Help, p.Default)
		sf.values[p.Name] = cmd.Flags().StringP(flagName(p.Name), shorthands[p.Name], "", help)
	}
	return sf
}

func flagName(key string) string { return strings.ReplaceAll(key, "_", "-") }

// resolve loads the style file (or the defaults), applies changed flags and
// validates the result.
func (sf *styleFlags) resolve(cmd *cobra.Command) (config.Options, error) {
	opts := config.Default()
	if sf.configPath != "" {
		loaded, err := config.Load(sf.configPath)
		if err != nil {
			return opts, err
		}
		opts = loaded
	}
	for _, p := range config.Params() {
		if !cmd.Flags().Changed(flagName(p.Name)) {
			continue
		}
		if err := opts.Set(p.Name, *sf.values[p.Name]); err != nil {
			return opts, err
		}
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// parseData accepts inline JSON or @path to a JSON file.
func parseData(raw string) (map[string]any, error) {
	if raw == "" {
		return nil, nil
	}
	data := []byte(raw)
	if path, ok := strings.CutPrefix(raw, "@"); ok {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read data file: %w", err)
		}
		data = b
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse data JSON: %w", err)
	}
	return out, nil
}
