// Package config loads derive recipes from TOML.
package config

import (
	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"sort"
	"strings"
)

const DefaultSuffix = "_derive.rs"

type Output struct {
	Suffix         string `toml:"suffix"`
	GoOut          string `toml:"go_out"`
	GoPackage      string `toml:"go_package"`
	FromAttributes *bool  `toml:"from_attributes"`
}

// Derive applies the named derive to the listed types. "*" matches every type.
type Derive struct {
	Name  string   `toml:"name"`
	Types []string `toml:"types"`
}

type Config struct {
	Output  Output   `toml:"output"`
	Derives []Derive `toml:"derive"`
}

// Default is used when no recipe file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func Load(path string) (*Config, error) {
	cfg := &Config{}
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: failed to parse TOML", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.Newf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	for i, d := range cfg.Derives {
		if strings.TrimSpace(d.Name) == "" {
			return nil, errors.Newf("%s: derive #%d has no name", path, i+1)
		}
		sort.Strings(cfg.Derives[i].Types)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Output.Suffix == "" {
		c.Output.Suffix = DefaultSuffix
	}
	if c.Output.FromAttributes == nil {
		enabled := true
		c.Output.FromAttributes = &enabled
	}
}

func (c *Config) UseAttributes() bool {
	return c.Output.FromAttributes == nil || *c.Output.FromAttributes
}

// DerivesFor lists the configured derives that apply to typeName, in file order.
func (c *Config) DerivesFor(typeName string) []string {
	var names []string
	for _, d := range c.Derives {
		if len(d.Types) == 0 || contains(d.Types, "*") || contains(d.Types, typeName) {
			names = append(names, d.Name)
		}
	}
	return names
}

func contains(sorted []string, needle string) bool {
	i := sort.SearchStrings(sorted, needle)
	return i < len(sorted) && sorted[i] == needle
}
