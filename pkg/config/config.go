// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const (
	// DefaultSuffix is appended to the template base name for outputs
	DefaultSuffix = "_localidades"

	// DefaultOutputDir is used when output.dir is not set
	DefaultOutputDir = "."

	// DefaultDelimiter is the CSV field separator
	DefaultDelimiter = ","
)

// KnownFormats lists the output formats understood by the codecs
var KnownFormats = []string{"csv", "xlsx", "json"}

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 ReplacementSource selects where the replacement list comes from.
// Exactly one field must be set.
type ReplacementSource struct {
	Builtin string   `json:"builtin,omitempty" yaml:"builtin,omitempty"` // built-in list name
	File    string   `json:"file,omitempty" yaml:"file,omitempty"`       // path or source uri, one value per line
	Values  []string `json:"values,omitempty" yaml:"values,omitempty"`   // inline values
}

// Kind names the configured source, or "" when none is set
func (r ReplacementSource) Kind() string {
	switch {
	case r.Builtin != "":
		return "builtin"
	case r.File != "":
		return "file"
	case len(r.Values) > 0:
		return "values"
	}
	return ""
}

func (r ReplacementSource) count() int {
	n := 0
	if r.Builtin != "" {
		n++
	}
	if r.File != "" {
		n++
	}
	if len(r.Values) > 0 {
		n++
	}
	return n
}

// 📦 OutputArgs controls where and how expanded tables are written
type OutputArgs struct {
	Dir       string `json:"dir,omitempty" yaml:"dir,omitempty"`             // output directory
	Suffix    string `json:"suffix,omitempty" yaml:"suffix,omitempty"`       // appended to the template base name
	Format    string `json:"format,omitempty" yaml:"format,omitempty"`       // csv, xlsx or json; empty keeps the input format
	Delimiter string `json:"delimiter,omitempty" yaml:"delimiter,omitempty"` // csv field separator
}

// 📚 Config represents a complete expansion job
type Config struct {
	Keyword      string            `json:"keyword" yaml:"keyword"`
	Replacements ReplacementSource `json:"replacements" yaml:"replacements"`
	Inputs       []string          `json:"inputs" yaml:"inputs"`
	Output       OutputArgs        `json:"output,omitempty" yaml:"output,omitempty"`
	ReplaceAll   bool              `json:"replace_all,omitempty" yaml:"replace_all,omitempty"`
	Async        bool              `json:"async,omitempty" yaml:"async,omitempty"`

	location string
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().
		Str("keyword", cfg.Keyword).
		Str("replacements", cfg.Replacements.Kind()).
		Int("inputs", len(cfg.Inputs)).
		Msg("configuration loaded")

	return cfg, nil
}

// 🔍 Validate checks if the configuration is valid and fills in defaults
func (cfg *Config) Validate() error {
	// Check required fields
	if cfg.Keyword == "" {
		return errors.Errorf("keyword is required")
	}
	if len(cfg.Inputs) == 0 {
		return errors.Errorf("at least one input is required")
	}
	switch cfg.Replacements.count() {
	case 0:
		return errors.Errorf("replacements: one of builtin, file or values is required")
	case 1:
	default:
		return errors.Errorf("replacements: only one of builtin, file or values may be set")
	}

	if cfg.Output.Format != "" {
		cfg.Output.Format = strings.ToLower(cfg.Output.Format)
		if !isKnownFormat(cfg.Output.Format) {
			return errors.Errorf("output.format %q is not one of %s", cfg.Output.Format, strings.Join(KnownFormats, ", "))
		}
	}
	if cfg.Output.Delimiter != "" && utf8.RuneCountInString(cfg.Output.Delimiter) != 1 {
		return errors.Errorf("output.delimiter must be a single character, got %q", cfg.Output.Delimiter)
	}

	// Set defaults
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = DefaultOutputDir
	}
	if cfg.Output.Suffix == "" {
		cfg.Output.Suffix = DefaultSuffix
	}
	if cfg.Output.Delimiter == "" {
		cfg.Output.Delimiter = DefaultDelimiter
	}

	// Clean up paths
	cfg.Output.Dir = filepath.Clean(cfg.Output.Dir)

	return nil
}

// Location returns the file the config was loaded from, if any
func (cfg *Config) Location() string {
	return cfg.location
}

// ResolvePath makes a relative local path relative to the config file.
// Absolute paths and source uris are returned as is.
func (cfg *Config) ResolvePath(p string) string {
	if cfg.location == "" || filepath.IsAbs(p) || strings.Contains(p, "://") {
		return p
	}
	return filepath.Join(filepath.Dir(cfg.location), p)
}

// DelimiterRune returns the configured CSV separator
func (cfg *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(cfg.Output.Delimiter)
	if r == utf8.RuneError {
		return ','
	}
	return r
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	source := cfg.Replacements.Kind()
	switch source {
	case "builtin":
		source = cfg.Replacements.Builtin
	case "file":
		source = cfg.Replacements.File
	case "values":
		source = fmt.Sprintf("%d values", len(cfg.Replacements.Values))
	}
	return fmt.Sprintf("%s x [%s] (%d inputs) -> %s", cfg.Keyword, source, len(cfg.Inputs), cfg.Output.Dir)
}

func isKnownFormat(f string) bool {
	for _, k := range KnownFormats {
		if k == f {
			return true
		}
	}
	return false
}
