// Package config loads the optional run configuration file.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/strongdm/ccfilter/internal/logging"
	"github.com/strongdm/ccfilter/internal/rewrite"
)

//go:embed schema.json
var schemaJSON []byte

var schema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource("schema.json", bytes.NewReader(schemaJSON)); err != nil {
		panic(err)
	}
	return c.MustCompile("schema.json")
}

type File struct {
	Version int    `json:"version" yaml:"version"`
	Policy  string `json:"policy" yaml:"policy"`

	Strip struct {
		Replacement      string `json:"replacement" yaml:"replacement"`
		PreserveNewlines bool   `json:"preserve_newlines" yaml:"preserve_newlines"`
	} `json:"strip" yaml:"strip"`

	Strings struct {
		SkipComments bool `json:"skip_comments" yaml:"skip_comments"`
	} `json:"strings" yaml:"strings"`

	Inputs struct {
		Include []string `json:"include" yaml:"include"`
		Exclude []string `json:"exclude" yaml:"exclude"`
	} `json:"inputs" yaml:"inputs"`

	Jobs   int    `json:"jobs" yaml:"jobs"`
	Report string `json:"report" yaml:"report"`

	Log struct {
		Level  string `json:"level" yaml:"level"`
		Format string `json:"format" yaml:"format"`
	} `json:"log" yaml:"log"`
}

// Default returns the configuration used when no file is given.
func Default() *File {
	var cfg File
	applyDefaults(&cfg)
	return &cfg
}

// Load reads a YAML or JSON (by extension) configuration file, checks it
// against the embedded schema, applies defaults and validates the result.
func Load(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	isJSON := strings.ToLower(filepath.Ext(path)) == ".json"

	doc, err := decodeDocument(b, isJSON)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	var cfg File
	if isJSON {
		err = json.Unmarshal(b, &cfg)
	} else {
		err = yaml.Unmarshal(b, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// decodeDocument returns the file as generic JSON values, the shape the
// schema validator expects. YAML goes through a JSON round trip.
func decodeDocument(b []byte, isJSON bool) (any, error) {
	if !isJSON {
		var y any
		if err := yaml.Unmarshal(b, &y); err != nil {
			return nil, err
		}
		if y == nil {
			return map[string]any{}, nil
		}
		jb, err := json.Marshal(y)
		if err != nil {
			return nil, err
		}
		b = jb
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func applyDefaults(cfg *File) {
	if cfg == nil {
		return
	}
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if strings.TrimSpace(cfg.Policy) == "" {
		cfg.Policy = "convert"
	}
	if strings.TrimSpace(cfg.Strip.Replacement) == "" {
		cfg.Strip.Replacement = "space"
	}
	if cfg.Jobs <= 0 {
		cfg.Jobs = 1
	}
	if strings.TrimSpace(cfg.Log.Level) == "" {
		cfg.Log.Level = "info"
	}
	if strings.TrimSpace(cfg.Log.Format) == "" {
		cfg.Log.Format = string(logging.DefaultLogFormat)
	}
}

func validate(cfg *File) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version: %d", cfg.Version)
	}
	if _, err := cfg.RewritePolicy(); err != nil {
		return err
	}
	for _, p := range append(append([]string{}, cfg.Inputs.Include...), cfg.Inputs.Exclude...) {
		if !doublestar.ValidatePattern(filepath.ToSlash(p)) {
			return fmt.Errorf("invalid input pattern %q", p)
		}
	}
	if _, err := logging.ParseLogLevel(cfg.Log.Level); err != nil {
		return err
	}
	if _, err := logging.ParseLogFormat(cfg.Log.Format); err != nil {
		return err
	}
	return nil
}

// PolicyOptions converts the strip and strings sections.
func (cfg *File) PolicyOptions() (rewrite.Options, error) {
	repl, err := rewrite.ParseReplacement(cfg.Strip.Replacement)
	if err != nil {
		return rewrite.Options{}, err
	}
	return rewrite.Options{
		Replacement:      repl,
		PreserveNewlines: cfg.Strip.PreserveNewlines,
		SkipComments:     cfg.Strings.SkipComments,
	}, nil
}

// RewritePolicy returns the configured policy.
func (cfg *File) RewritePolicy() (rewrite.Policy, error) {
	opts, err := cfg.PolicyOptions()
	if err != nil {
		return nil, err
	}
	return rewrite.ByName(cfg.Policy, opts)
}
