// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config resolves the allowed commit types and scopes.
//
// Values are layered, lowest precedence first:
//
//  1. gradle.properties in the repository root
//  2. .commitcheck.yaml in the repository root
//  3. COMMITCHECK_TYPES / COMMITCHECK_SCOPES environment variables
//  4. explicit overrides (command-line flags)
//
// Repositories whose origin URL contains the template marker always use the
// template scopes, whatever their own configuration says.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Property keys, shared by gradle.properties and .commitcheck.yaml.
const (
	KeyTypes  = "commit.types"
	KeyScopes = "commit.scopes"
)

// Template repository defaults.
const DefaultTemplateOrigin = "Goldmensch/tequila-java-gradle-template.git"

// DefaultTemplateScopes is the fixed scope set of template repositories.
var DefaultTemplateScopes = []string{"gradle", "readme"}

// DefaultRemote is the remote whose URL and tracking refs are consulted.
const DefaultRemote = "origin"

// ErrMissingProperty indicates a required property is not configured anywhere.
var ErrMissingProperty = errors.New("missing property")

// Settings is the merged configuration.
// A nil Types or Scopes means the property was never set.
type Settings struct {
	Types          []string
	Scopes         []string
	TemplateOrigin string
	TemplateScopes []string
	Remote         string
}

// Default returns settings with the template constants and no types or scopes.
func Default() *Settings {
	return &Settings{
		TemplateOrigin: DefaultTemplateOrigin,
		TemplateScopes: append([]string(nil), DefaultTemplateScopes...),
		Remote:         DefaultRemote,
	}
}

// Rules are the type and scope registries a validator checks against.
type Rules struct {
	Types    []string
	Scopes   []string
	Template bool // scopes were forced by the template override
}

// IsTemplate reports whether originURL belongs to the template repository.
func (s *Settings) IsTemplate(originURL string) bool {
	return s.TemplateOrigin != "" && strings.Contains(originURL, s.TemplateOrigin)
}

// Resolve returns the registries for a repository with the given origin URL.
func (s *Settings) Resolve(originURL string) (Rules, error) {
	if s.Types == nil {
		return Rules{}, fmt.Errorf("%w: %s", ErrMissingProperty, KeyTypes)
	}
	if s.IsTemplate(originURL) {
		return Rules{Types: s.Types, Scopes: s.TemplateScopes, Template: true}, nil
	}
	if s.Scopes == nil {
		return Rules{}, fmt.Errorf("%w: %s", ErrMissingProperty, KeyScopes)
	}
	return Rules{Types: s.Types, Scopes: s.Scopes}, nil
}

// ParseList splits a comma-separated property into trimmed tokens.
// Order is kept, duplicates are kept, empty tokens are dropped.
// The result is never nil, so an empty property still counts as set.
func ParseList(s string) []string {
	out := []string{}
	for _, tok := range strings.Split(s, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
