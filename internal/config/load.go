// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/magiconair/properties"
	"gopkg.in/yaml.v3"
)

// File names looked up in the repository root.
const (
	PropertiesFile = "gradle.properties"
	LocalFile      = ".commitcheck.yaml"
)

// Environment variables consulted by Load.
const (
	EnvTypes  = "COMMITCHECK_TYPES"
	EnvScopes = "COMMITCHECK_SCOPES"
)

// List is a token list that accepts either a YAML sequence or a
// comma-separated scalar.
type List []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *List) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*l = ParseList(value.Value)
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		out := []string{}
		for _, it := range items {
			if it = strings.TrimSpace(it); it != "" {
				out = append(out, it)
			}
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("line %d: expected string or list", value.Line)
	}
}

// localFile accepts both the nested form
//
//	commit:
//	  types: feat, fix
//
// and the dotted property keys used by gradle.properties (commit.types: feat, fix).
// A dotted key wins over its nested counterpart.
type localFile struct {
	Commit struct {
		Types  *List `yaml:"types"`
		Scopes *List `yaml:"scopes"`
	} `yaml:"commit"`
	Template struct {
		Origin *string `yaml:"origin"`
		Scopes *List   `yaml:"scopes"`
	} `yaml:"template"`

	Types          *List   `yaml:"commit.types"`
	Scopes         *List   `yaml:"commit.scopes"`
	TemplateOrigin *string `yaml:"template.origin"`
	TemplateScopes *List   `yaml:"template.scopes"`

	Remote string `yaml:"remote"`
}

// Overrides carries explicitly supplied values. Nil fields are not applied.
type Overrides struct {
	Types  *string
	Scopes *string
}

// Loader reads configuration for a repository root.
type Loader struct {
	Root      string
	LookupEnv func(key string) (string, bool)
}

// NewLoader creates a loader for the repository at root.
func NewLoader(root string) *Loader {
	return &Loader{Root: root, LookupEnv: os.LookupEnv}
}

// Load merges every layer into Settings.
func (l *Loader) Load(ov Overrides) (*Settings, error) {
	s := Default()

	if err := l.applyProperties(s); err != nil {
		return nil, err
	}
	if err := l.applyLocalFile(s); err != nil {
		return nil, err
	}
	l.applyEnv(s)

	if ov.Types != nil {
		s.Types = ParseList(*ov.Types)
	}
	if ov.Scopes != nil {
		s.Scopes = ParseList(*ov.Scopes)
	}
	return s, nil
}

func (l *Loader) applyProperties(s *Settings) error {
	path := filepath.Join(l.Root, PropertiesFile)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return fmt.Errorf("reading %s: %w", PropertiesFile, err)
	}
	if v, ok := p.Get(KeyTypes); ok {
		s.Types = ParseList(v)
	}
	if v, ok := p.Get(KeyScopes); ok {
		s.Scopes = ParseList(v)
	}
	return nil
}

func (l *Loader) applyLocalFile(s *Settings) error {
	path := filepath.Join(l.Root, LocalFile)
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is anchored at the repository root
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", LocalFile, err)
	}

	// Unknown keys are rejected.
	var f localFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing %s: %w", LocalFile, err)
	}

	setList(&s.Types, f.Commit.Types, f.Types)
	setList(&s.Scopes, f.Commit.Scopes, f.Scopes)
	setList(&s.TemplateScopes, f.Template.Scopes, f.TemplateScopes)
	for _, origin := range []*string{f.Template.Origin, f.TemplateOrigin} {
		if origin != nil {
			s.TemplateOrigin = *origin
		}
	}
	if f.Remote != "" {
		s.Remote = f.Remote
	}
	return nil
}

// setList assigns the last non-nil value to dst.
func setList(dst *[]string, values ...*List) {
	for _, v := range values {
		if v != nil {
			*dst = *v
		}
	}
}

func (l *Loader) applyEnv(s *Settings) {
	if l.LookupEnv == nil {
		return
	}
	if v, ok := l.LookupEnv(EnvTypes); ok {
		s.Types = ParseList(v)
	}
	if v, ok := l.LookupEnv(EnvScopes); ok {
		s.Scopes = ParseList(v)
	}
}
