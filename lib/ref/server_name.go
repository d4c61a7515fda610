// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"fmt"
	"strings"
)

// ServerName is a validated Matrix server name (e.g., "example.org",
// "matrix.example.com:8448").
//
// Server names identify homeservers taking part in federation. They
// appear after the first colon in user IDs (@localpart:server) and are
// the unit the version report is keyed on: one row per server, sorted
// by name.
//
// ServerName is an immutable value type. The zero value is not valid;
// use IsZero to check.
type ServerName struct {
	name string
}

// ParseServerName validates and wraps a raw Matrix server name string.
// Returns an error if the string is empty or contains whitespace,
// control characters, or Matrix sigils.
func ParseServerName(raw string) (ServerName, error) {
	if err := validateServer(raw); err != nil {
		return ServerName{}, err
	}
	return ServerName{name: raw}, nil
}

// MustParseServerName is like ParseServerName but panics on error. Use
// in tests and static initialization where the input is known-valid.
func MustParseServerName(raw string) ServerName {
	s, err := ParseServerName(raw)
	if err != nil {
		panic(fmt.Sprintf("ref.MustParseServerName(%q): %v", raw, err))
	}
	return s
}

// ParseServerNames parses every entry of raw, collecting all failures
// into a single error so configuration mistakes are reported together.
func ParseServerNames(raw []string) ([]ServerName, error) {
	names := make([]ServerName, 0, len(raw))
	var invalid []string
	for _, entry := range raw {
		name, err := ParseServerName(entry)
		if err != nil {
			invalid = append(invalid, err.Error())
			continue
		}
		names = append(names, name)
	}
	if len(invalid) > 0 {
		return nil, fmt.Errorf("invalid server names: %s", strings.Join(invalid, "; "))
	}
	return names, nil
}

// String returns the server name string (e.g., "example.org").
func (s ServerName) String() string { return s.name }

// IsZero reports whether the ServerName is the zero value (uninitialized).
func (s ServerName) IsZero() bool { return s.name == "" }

// Compare orders server names lexically by their string form. It has
// the signature slices.SortFunc expects.
func (s ServerName) Compare(other ServerName) int {
	return strings.Compare(s.name, other.name)
}

// MarshalText implements encoding.TextMarshaler.
func (s ServerName) MarshalText() ([]byte, error) {
	return []byte(s.name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Validates the
// server name. An empty input produces the zero value.
func (s *ServerName) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*s = ServerName{}
		return nil
	}
	parsed, err := ParseServerName(string(data))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
