// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conventional validates commit messages against the conventional
// commits header grammar:
//
//	<type>[(<scope>)][!]: <message>
//
// type and scope are word characters, the breaking-change marker is optional,
// and the message starts with a non-space character and contains no period.
package conventional

import "regexp"

// HeaderPattern matches a complete conventional commit header.
var HeaderPattern = regexp.MustCompile(`^(?P<type>\w+?)(?:\((?P<scope>\w+?)\))?(?P<breaking>!)?: (?P<message>[^\s.][^.]*)$`)

var (
	typeIdx     = HeaderPattern.SubexpIndex("type")
	scopeIdx    = HeaderPattern.SubexpIndex("scope")
	breakingIdx = HeaderPattern.SubexpIndex("breaking")
	messageIdx  = HeaderPattern.SubexpIndex("message")
)

// Header is a parsed commit header.
type Header struct {
	Type     string
	Scope    string // empty when the header has no scope
	Breaking bool
	Message  string
}

// HasScope reports whether the header carries a scope group.
func (h Header) HasScope() bool {
	return h.Scope != ""
}

// ParseHeader matches header against HeaderPattern.
// The boolean is false when the header does not follow the grammar.
func ParseHeader(header string) (Header, bool) {
	m := HeaderPattern.FindStringSubmatch(header)
	if m == nil {
		return Header{}, false
	}
	return Header{
		Type:     m[typeIdx],
		Scope:    m[scopeIdx],
		Breaking: m[breakingIdx] != "",
		Message:  m[messageIdx],
	}, true
}
