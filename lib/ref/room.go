// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"fmt"
	"strings"
)

// RoomID is a validated Matrix room ID: "!opaque:server" for room
// versions up to 11, or a bare "!opaque" for room versions that derive
// the ID from the create event and drop the server part.
//
// The zero value is not valid; use IsZero to check.
type RoomID struct {
	id     string
	server ServerName
}

// ParseRoomID validates raw as a room ID. When a ':server' suffix is
// present it must be a valid server name. Room aliases ("#...") are
// rejected: the bot never resolves aliases.
func ParseRoomID(raw string) (RoomID, error) {
	if !strings.HasPrefix(raw, "!") {
		return RoomID{}, fmt.Errorf("invalid room ID %q: must start with !", raw)
	}
	if !strings.Contains(raw, ":") {
		if len(raw) == 1 {
			return RoomID{}, fmt.Errorf("invalid room ID %q: empty opaque part", raw)
		}
		if strings.ContainsFunc(raw, isIDSpace) {
			return RoomID{}, fmt.Errorf("invalid room ID %q: contains whitespace", raw)
		}
		return RoomID{id: raw}, nil
	}

	_, server, err := parsePrefixedID(raw, '!', "room ID")
	if err != nil {
		return RoomID{}, err
	}
	serverName, err := ParseServerName(server)
	if err != nil {
		return RoomID{}, fmt.Errorf("invalid room ID %q: %w", raw, err)
	}
	return RoomID{id: raw, server: serverName}, nil
}

func isIDSpace(r rune) bool { return r <= ' ' || r == 0x7f }

// MustParseRoomID is like ParseRoomID but panics on error.
func MustParseRoomID(raw string) RoomID {
	roomID, err := ParseRoomID(raw)
	if err != nil {
		panic(fmt.Sprintf("ref.MustParseRoomID(%q): %v", raw, err))
	}
	return roomID
}

func (r RoomID) String() string { return r.id }

// Server returns the server part of the ID, or the zero ServerName for
// server-less room IDs.
func (r RoomID) Server() ServerName { return r.server }

func (r RoomID) IsZero() bool { return r.id == "" }

func (r RoomID) MarshalText() ([]byte, error) { return []byte(r.id), nil }

// UnmarshalText parses data with ParseRoomID. Empty input yields the
// zero value.
func (r *RoomID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*r = RoomID{}
		return nil
	}
	parsed, err := ParseRoomID(string(data))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
