// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package models

import "strings"

// ShortRoomKeyLength is the number of leading characters of a brace-stripped
// room identifier used as its compact alias.
const ShortRoomKeyLength = 8

// StripBraces removes a single leading "{" and trailing "}" from a room
// identifier. Zoom reports breakout room UUIDs with and without braces
// depending on the event source.
func StripBraces(identifier string) string {
	return strings.TrimSuffix(strings.TrimPrefix(identifier, "{"), "}")
}

// ShortRoomKey returns the compact alias for a room identifier: the first
// ShortRoomKeyLength characters of its brace-stripped form. Identifiers
// shorter than that are returned stripped but whole.
func ShortRoomKey(identifier string) string {
	stripped := StripBraces(identifier)
	if len(stripped) > ShortRoomKeyLength {
		return stripped[:ShortRoomKeyLength]
	}
	return stripped
}

// NormalizeVariants expands a room identifier into every form it may later be
// looked up under: the raw form, the brace-stripped form, lowercased copies of
// both, and the short key. The raw identifier is always first and duplicates
// are removed preserving order.
func NormalizeVariants(identifier string) []string {
	if identifier == "" {
		return nil
	}

	stripped := StripBraces(identifier)
	candidates := []string{
		identifier,
		stripped,
		strings.ToLower(identifier),
		strings.ToLower(stripped),
		ShortRoomKey(identifier),
	}

	seen := make(map[string]bool, len(candidates))
	variants := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		variants = append(variants, c)
	}

	return variants
}

// FallbackRoomName builds a displayable room name for an identifier that has
// no calibrated mapping. An empty identifier yields "Unknown Room".
func FallbackRoomName(identifier string) string {
	if identifier == "" {
		return "Unknown Room"
	}
	return "Room-" + ShortRoomKey(identifier)
}

// RoomIdentifierMap is the bidirectional identifier-to-name mapping built
// during calibration. It is a plain data structure; callers serialize access.
type RoomIdentifierMap struct {
	idToName map[string]string
	nameToID map[string]string
}

// NewRoomIdentifierMap creates an empty mapping.
func NewRoomIdentifierMap() *RoomIdentifierMap {
	return &RoomIdentifierMap{
		idToName: make(map[string]string),
		nameToID: make(map[string]string),
	}
}

// Bind associates every normalized variant of identifier with name. The short
// key variant is only written when not already bound, so a later room whose
// identifier shares a prefix cannot silently steal the alias. Bind returns the
// variants that were rebound from a different name, so callers can log the
// collision.
func (m *RoomIdentifierMap) Bind(identifier, name string) []string {
	if identifier == "" {
		return nil
	}

	var rebound []string
	bind := func(variant string, firstWriterWins bool) {
		if variant == "" {
			return
		}
		existing, ok := m.idToName[variant]
		if ok && existing != name {
			rebound = append(rebound, variant)
		}
		if ok && firstWriterWins {
			return
		}
		m.idToName[variant] = name
	}

	stripped := StripBraces(identifier)
	bind(identifier, false)
	bind(stripped, false)
	bind(strings.ToLower(identifier), false)
	bind(strings.ToLower(stripped), false)
	bind(ShortRoomKey(identifier), true)

	m.nameToID[name] = stripped
	return rebound
}

// Lookup resolves a room identifier to its calibrated name. Only the raw and
// brace-stripped forms are consulted; lowercase and short-key variants exist
// for inbound identifiers that already arrive in those forms.
func (m *RoomIdentifierMap) Lookup(identifier string) (string, bool) {
	if name, ok := m.idToName[identifier]; ok {
		return name, true
	}
	if name, ok := m.idToName[StripBraces(identifier)]; ok {
		return name, true
	}
	return "", false
}

// IdentifierFor returns the stored canonical identifier for a room name.
func (m *RoomIdentifierMap) IdentifierFor(name string) (string, bool) {
	id, ok := m.nameToID[name]
	return id, ok
}

// Len reports how many identifier variants are bound.
func (m *RoomIdentifierMap) Len() int {
	return len(m.idToName)
}

// NameCount reports how many distinct room names are bound.
func (m *RoomIdentifierMap) NameCount() int {
	return len(m.nameToID)
}

// Names returns the bound room names.
func (m *RoomIdentifierMap) Names() []string {
	names := make([]string, 0, len(m.nameToID))
	for name := range m.nameToID {
		names = append(names, name)
	}
	return names
}

// Mappings returns a copy of the identifier-to-name map.
func (m *RoomIdentifierMap) Mappings() map[string]string {
	out := make(map[string]string, len(m.idToName))
	for k, v := range m.idToName {
		out[k] = v
	}
	return out
}

// Reset discards all bindings.
func (m *RoomIdentifierMap) Reset() {
	m.idToName = make(map[string]string)
	m.nameToID = make(map[string]string)
}
