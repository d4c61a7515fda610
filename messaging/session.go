// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"

	"github.com/bureau-foundation/hsbot/lib/ref"
	"github.com/bureau-foundation/hsbot/lib/secret"
)

// Session is an authenticated Matrix session, created by Client.Login.
//
// The access token is stored in a secret.Buffer (mmap-backed, locked
// against swap, excluded from core dumps). The caller must call Close
// when the Session is no longer needed.
type Session struct {
	client      *Client
	accessToken *secret.Buffer
	userID      string
	deviceID    string
	closed      atomic.Bool

	// transactionCounter makes transaction IDs unique within a
	// millisecond.
	transactionCounter atomic.Int64
}

// UserID returns the user ID the homeserver reported at login.
func (s *Session) UserID() string {
	return s.userID
}

// DeviceID returns the device ID for this session.
func (s *Session) DeviceID() string {
	return s.deviceID
}

// Close releases the access token memory (zeros, unlocks, unmaps).
// Idempotent. Rooms obtained from the session fail with
// ErrSessionClosed afterwards.
func (s *Session) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.accessToken.Close()
}

// JoinRoom joins roomID and returns a Room bound to this session.
//
// Joining is lenient: a failed join is logged and the Room is returned
// anyway, because the bot is usually already a member and the later
// calls report any real access problem. Room.JoinError exposes the
// failure.
func (s *Session) JoinRoom(ctx context.Context, roomID ref.RoomID) *Room {
	room := &Room{session: s, id: roomID}
	if s.closed.Load() {
		room.joinErr = ErrSessionClosed
		return room
	}

	path := "/rooms/" + url.PathEscape(roomID.String()) + "/join"
	if _, err := s.client.doRequest(ctx, http.MethodPost, path, s.accessToken, struct{}{}); err != nil {
		room.joinErr = fmt.Errorf("messaging: join room %s failed: %w", roomID, err)
		s.client.logger.Error("joining room failed, continuing",
			"room_id", roomID.String(),
			"error", err,
		)
		return room
	}

	s.client.logger.Info("joined room", "room_id", roomID.String())
	return room
}

// nextTransactionID returns a transaction ID unique for the lifetime of
// the access token. Format: "hsbot-<timestamp_ms>-<counter>".
func (s *Session) nextTransactionID() string {
	counter := s.transactionCounter.Add(1)
	return fmt.Sprintf("hsbot-%d-%d", s.client.clock.Now().UnixMilli(), counter)
}

// Room is a room the session has attempted to join. Members and
// SendMessage are only reachable through a Room.
type Room struct {
	session *Session
	id      ref.RoomID
	joinErr error
}

// ID returns the room ID.
func (r *Room) ID() ref.RoomID {
	return r.id
}

// JoinError returns the error from the join attempt, or nil if the
// join succeeded.
func (r *Room) JoinError() error {
	return r.joinErr
}

func (r *Room) ready() error {
	if r == nil || r.session == nil || r.id.IsZero() {
		return ErrNotJoined
	}
	if r.session.closed.Load() {
		return ErrSessionClosed
	}
	return nil
}

func (r *Room) path(suffix string) string {
	return "/rooms/" + url.PathEscape(r.id.String()) + suffix
}

// Members returns the user IDs of the room's joined members, in no
// particular order.
func (r *Room) Members(ctx context.Context) ([]string, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}

	body, err := r.session.client.doRequest(ctx, http.MethodGet, r.path("/joined_members"), r.session.accessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("messaging: joined members of %s failed: %w", r.id, err)
	}

	var response JoinedMembersResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("%w: joined_members: %w", ErrMalformedResponse, err)
	}
	if response.Joined == nil {
		return nil, fmt.Errorf("%w: joined_members response has no joined object", ErrMalformedResponse)
	}

	members := make([]string, 0, len(response.Joined))
	for userID := range response.Joined {
		members = append(members, userID)
	}
	return members, nil
}

// SendMessage posts text to the room as an m.text message with a
// <pre><code> HTML rendering (see NewPreformattedMessage). Returns the
// event ID.
func (r *Room) SendMessage(ctx context.Context, text string) (string, error) {
	return r.Send(ctx, NewPreformattedMessage(text))
}

// Send posts an m.room.message event with the given content using an
// idempotent PUT. Returns the event ID.
func (r *Room) Send(ctx context.Context, content MessageContent) (string, error) {
	if err := r.ready(); err != nil {
		return "", err
	}

	path := r.path("/send/m.room.message/" + url.PathEscape(r.session.nextTransactionID()))
	body, err := r.session.client.doRequest(ctx, http.MethodPut, path, r.session.accessToken, content)
	if err != nil {
		return "", fmt.Errorf("messaging: send message to %s failed: %w", r.id, err)
	}

	var response SendEventResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("%w: send: %w", ErrMalformedResponse, err)
	}

	r.session.client.logger.Info("sent message",
		"room_id", r.id.String(),
		"event_id", response.EventID,
	)
	return response.EventID, nil
}
