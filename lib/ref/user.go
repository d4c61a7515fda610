// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import "fmt"

// UserID is a validated Matrix user ID (e.g., "@alice:example.org").
//
// A Matrix user ID always starts with '@' and contains a ':'
// separating the localpart from the server name. Only the structure is
// checked: localparts from foreign homeservers follow their own rules
// and the bot reports on every server in the room.
//
// UserID is an immutable value type. The zero value is not valid;
// use IsZero to check.
type UserID struct {
	id     string
	server ServerName
}

// ParseUserID validates and wraps a raw Matrix user ID string.
// Returns an error if the string is empty, doesn't start with '@',
// has an empty localpart, or is missing a valid ':server' suffix.
func ParseUserID(raw string) (UserID, error) {
	_, server, err := parseMatrixID(raw)
	if err != nil {
		return UserID{}, err
	}
	serverName, err := ParseServerName(server)
	if err != nil {
		return UserID{}, fmt.Errorf("invalid Matrix user ID %q: %w", raw, err)
	}
	return UserID{id: raw, server: serverName}, nil
}

// MustParseUserID is like ParseUserID but panics on error.
func MustParseUserID(raw string) UserID {
	u, err := ParseUserID(raw)
	if err != nil {
		panic(fmt.Sprintf("ref.MustParseUserID(%q): %v", raw, err))
	}
	return u
}

// MemberServer returns the server name of a room member identifier
// (everything after the first ':' of "@localpart:server"). The second
// return value is false when the identifier is not a user ID: it does
// not start with '@', has no server part, or the server part is not a
// valid server name.
//
//	MemberServer("@alice:example.org")      → ("example.org", true)
//	MemberServer("@bob:example.org:8448")   → ("example.org:8448", true)
//	MemberServer("not-a-user")              → (ServerName{}, false)
func MemberServer(identifier string) (ServerName, bool) {
	if identifier == "" || identifier[0] != '@' {
		return ServerName{}, false
	}
	userID, err := ParseUserID(identifier)
	if err != nil {
		return ServerName{}, false
	}
	return userID.server, true
}

// String returns the full user ID string (e.g., "@alice:example.org").
func (u UserID) String() string { return u.id }

// IsZero reports whether the UserID is the zero value (uninitialized).
func (u UserID) IsZero() bool { return u.id == "" }

// Server returns the server portion of the user ID. Returns the zero
// ServerName for a zero-value UserID.
func (u UserID) Server() ServerName { return u.server }

// MarshalText implements encoding.TextMarshaler.
func (u UserID) MarshalText() ([]byte, error) {
	return []byte(u.id), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Validates the
// user ID format. An empty input produces the zero value.
func (u *UserID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*u = UserID{}
		return nil
	}
	parsed, err := ParseUserID(string(data))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
