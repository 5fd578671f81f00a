// Package config holds the user-facing configuration for a wrapper run:
// where the header lives, how the front end is invoked, and which template
// specializations are registered.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Specialization is one concrete instantiation of a template: the exposed
// name plus the type-parameter → concrete-type substitution map.
type Specialization struct {
	Name          string            `json:"name" yaml:"name" mapstructure:"name"`
	Substitutions map[string]string `json:"substitutions" yaml:"substitutions" mapstructure:"substitutions"`
}

// SpecializationTable maps a qualified key ("namespace::Name" for classes and
// free functions, "Class::method" for methods) to its registered entries, in
// registration order.
type SpecializationTable map[string][]Specialization

// LoadSpecializations reads the specializations section of a YAML config
// file. Decoding goes through yaml.v3 rather than the viper instance: viper
// lowercases map keys on read, which would corrupt both the qualified keys
// ("geo::Vec") and the type-parameter names ("T") this table is matched by.
// A missing file yields an empty table.
func LoadSpecializations(path string) (SpecializationTable, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return SpecializationTable{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var doc struct {
		Specializations SpecializationTable `yaml:"specializations"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal specializations: %w", err)
	}
	if doc.Specializations == nil {
		doc.Specializations = SpecializationTable{}
	}
	return doc.Specializations, nil
}

// Config controls parsing and generation.
//
// Header          – the C++ header to wrap
// OutDir          – directory the exported artifacts are written to
// ModuleName      – name of the generated extension module (default: header basename)
// IncludeDirs     – passed through opaquely to the front end
// ExtraFlags      – passed through opaquely to the front end
// Specializations – registered template specializations, consulted only
//
//	during the specialization pass
type Config struct {
	Header          string              `json:"header,omitempty" yaml:"header,omitempty" mapstructure:"header,omitempty"`
	OutDir          string              `json:"out_dir,omitempty" yaml:"out_dir,omitempty" mapstructure:"out_dir,omitempty"`
	ModuleName      string              `json:"module_name,omitempty" yaml:"module_name,omitempty" mapstructure:"module_name,omitempty"`
	IncludeDirs     []string            `json:"include_dirs,omitempty" yaml:"include_dirs,omitempty" mapstructure:"include_dirs,omitempty"`
	ExtraFlags      []string            `json:"extra_flags,omitempty" yaml:"extra_flags,omitempty" mapstructure:"extra_flags,omitempty"`
	Specializations SpecializationTable `json:"specializations,omitempty" yaml:"specializations,omitempty" mapstructure:"specializations,omitempty"`
}

func New(opts ...Option) *Config {
	c := &Config{
		OutDir:          ".",
		Specializations: SpecializationTable{},
	}
	for _, fn := range opts {
		fn(c)
	}
	c.Normalize()
	return c
}

func (c *Config) Normalize() {
	if c.Specializations == nil {
		c.Specializations = SpecializationTable{}
	}
	if len(c.OutDir) == 0 {
		c.OutDir = "."
	}
	if strings.Contains(c.OutDir, ".") {
		c.OutDir, _ = filepath.Abs(c.OutDir)
	}
	if c.ModuleName == "" && c.Header != "" {
		base := filepath.Base(c.Header)
		c.ModuleName = strings.TrimSuffix(base, filepath.Ext(base))
	}
}

// functional option pattern ---------------------------------------------------

type Option func(*Config)

func WithHeader(h string) Option     { return func(c *Config) { c.Header = h } }
func WithOutDir(d string) Option     { return func(c *Config) { c.OutDir = d } }
func WithModuleName(n string) Option { return func(c *Config) { c.ModuleName = n } }
func WithIncludeDirs(dirs ...string) Option {
	return func(c *Config) { c.IncludeDirs = append(c.IncludeDirs, dirs...) }
}
func WithExtraFlags(flags ...string) Option {
	return func(c *Config) { c.ExtraFlags = append(c.ExtraFlags, flags...) }
}

// WithSpecialization registers one concrete instantiation under the qualified
// key. Repeated calls for the same key append in call order.
func WithSpecialization(key, name string, subs map[string]string) Option {
	return func(c *Config) {
		if c.Specializations == nil {
			c.Specializations = SpecializationTable{}
		}
		c.Specializations[key] = append(c.Specializations[key], Specialization{
			Name:          name,
			Substitutions: subs,
		})
	}
}
