// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/bureau-foundation/hsbot/messaging"
)

const mockAccessToken = "syt_mock_token"

// mockMatrixState holds configurable state for a mock Matrix homeserver
// and records what the bot did to it. Thread-safe: tests read the
// recorded calls while the server handles requests.
type mockMatrixState struct {
	mu sync.Mutex

	// password is the only password login accepts.
	password string

	// members maps room IDs to joined member user IDs.
	members map[string][]string

	// joinStatus, when non-zero, is returned by the join endpoint
	// instead of 200.
	joinStatus int

	// membersStatus, when non-zero, is returned by joined_members
	// instead of the member list.
	membersStatus int

	// logins counts successful logins.
	logins int

	// joins records the room IDs join was called for.
	joins []string

	// sent records every m.room.message content in arrival order.
	sent []messaging.MessageContent
}

func newMockMatrixState(password string) *mockMatrixState {
	return &mockMatrixState{
		password: password,
		members:  make(map[string][]string),
	}
}

func (m *mockMatrixState) sentMessages() []messaging.MessageContent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]messaging.MessageContent(nil), m.sent...)
}

func (m *mockMatrixState) loginCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.logins
}

const clientPrefix = "/_matrix/client/r0"

func (m *mockMatrixState) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	path := strings.TrimPrefix(request.URL.Path, clientPrefix)
	if path == request.URL.Path {
		writeMatrixError(writer, http.StatusNotFound, "M_UNRECOGNIZED", "unknown prefix")
		return
	}

	if path == "/login" {
		m.handleLogin(writer, request)
		return
	}

	if request.Header.Get("Authorization") != "Bearer "+mockAccessToken {
		writeMatrixError(writer, http.StatusUnauthorized, "M_UNKNOWN_TOKEN", "bad token")
		return
	}

	// /rooms/{roomId}/{action...}
	rest, ok := strings.CutPrefix(path, "/rooms/")
	if !ok {
		writeMatrixError(writer, http.StatusNotFound, "M_UNRECOGNIZED", "unknown endpoint")
		return
	}
	roomID, action, _ := strings.Cut(rest, "/")

	switch {
	case action == "join" && request.Method == http.MethodPost:
		m.handleJoin(writer, roomID)
	case action == "joined_members" && request.Method == http.MethodGet:
		m.handleJoinedMembers(writer, roomID)
	case strings.HasPrefix(action, "send/m.room.message/") && request.Method == http.MethodPut:
		m.handleSend(writer, request)
	default:
		writeMatrixError(writer, http.StatusNotFound, "M_UNRECOGNIZED", "unknown endpoint")
	}
}

func (m *mockMatrixState) handleLogin(writer http.ResponseWriter, request *http.Request) {
	if request.Method == http.MethodGet {
		writeJSON(writer, map[string]any{"flows": []map[string]string{{"type": "m.login.password"}}})
		return
	}

	var body messaging.LoginRequest
	if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
		writeMatrixError(writer, http.StatusBadRequest, "M_BAD_JSON", err.Error())
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if body.Type != "m.login.password" || body.Password != m.password {
		writeMatrixError(writer, http.StatusForbidden, "M_FORBIDDEN", "Invalid username or password")
		return
	}
	m.logins++
	writeJSON(writer, messaging.AuthResponse{
		UserID:      "@" + body.User + ":example.org",
		AccessToken: mockAccessToken,
		DeviceID:    "MOCKDEVICE",
	})
}

func (m *mockMatrixState) handleJoin(writer http.ResponseWriter, roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.joins = append(m.joins, roomID)
	if m.joinStatus != 0 {
		writeMatrixError(writer, m.joinStatus, "M_FORBIDDEN", "join refused")
		return
	}
	writeJSON(writer, map[string]string{"room_id": roomID})
}

func (m *mockMatrixState) handleJoinedMembers(writer http.ResponseWriter, roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.membersStatus != 0 {
		writeMatrixError(writer, m.membersStatus, "M_FORBIDDEN", "not a member")
		return
	}
	joined := make(map[string]messaging.RoomMember)
	for _, member := range m.members[roomID] {
		joined[member] = messaging.RoomMember{}
	}
	writeJSON(writer, messaging.JoinedMembersResponse{Joined: joined})
}

func (m *mockMatrixState) handleSend(writer http.ResponseWriter, request *http.Request) {
	data, _ := io.ReadAll(request.Body)
	var content messaging.MessageContent
	if err := json.Unmarshal(data, &content); err != nil {
		writeMatrixError(writer, http.StatusBadRequest, "M_BAD_JSON", err.Error())
		return
	}

	m.mu.Lock()
	m.sent = append(m.sent, content)
	m.mu.Unlock()
	writeJSON(writer, messaging.SendEventResponse{EventID: "$report"})
}

func writeJSON(writer http.ResponseWriter, value any) {
	writer.Header().Set("Content-Type", "application/json")
	json.NewEncoder(writer).Encode(value)
}

func writeMatrixError(writer http.ResponseWriter, status int, code, message string) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	json.NewEncoder(writer).Encode(messaging.MatrixError{Code: code, Message: message})
}
