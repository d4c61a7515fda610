// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bureau-foundation/hsbot/lib/clock"
	"github.com/bureau-foundation/hsbot/lib/ref"
)

var testRoom = ref.MustParseRoomID("!reports:example.org")

// newTestSession creates a Client and a Session holding "test-token",
// pointed at a test server. The client's clock is fake.
func newTestSession(t *testing.T, handler http.Handler) (*clock.FakeClock, *Session) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	fakeClock := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	client, err := NewClient(ClientConfig{
		HomeserverURL: server.URL,
		Clock:         fakeClock,
		Logger:        discardLogger(),
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	session, err := client.sessionFromAuth(&AuthResponse{
		UserID:      "@versionbot:example.org",
		AccessToken: "test-token",
	})
	if err != nil {
		t.Fatalf("sessionFromAuth failed: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return fakeClock, session
}

func TestJoinRoom(t *testing.T) {
	var body string
	_, session := newTestSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assertAuth(t, request, "test-token")
		if request.Method != http.MethodPost || request.URL.Path != "/_matrix/client/r0/rooms/!reports:example.org/join" {
			t.Errorf("unexpected request: %s %s", request.Method, request.URL.Path)
		}
		data, _ := io.ReadAll(request.Body)
		body = string(data)
		writeJSON(writer, JoinResponse{RoomID: testRoom})
	}))

	room := session.JoinRoom(context.Background(), testRoom)
	if room.JoinError() != nil {
		t.Errorf("JoinError() = %v, want nil", room.JoinError())
	}
	if room.ID() != testRoom {
		t.Errorf("ID() = %v, want %v", room.ID(), testRoom)
	}
	if body != "{}" {
		t.Errorf("join body = %q, want {}", body)
	}
}

func TestJoinRoomFailureIsLenient(t *testing.T) {
	_, session := newTestSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if strings.HasSuffix(request.URL.Path, "/join") {
			writer.WriteHeader(http.StatusForbidden)
			io.WriteString(writer, `{"errcode": "M_FORBIDDEN", "error": "You are not invited to this room."}`)
			return
		}
		writeJSON(writer, JoinedMembersResponse{Joined: map[string]RoomMember{"@a:example.org": {}}})
	}))

	room := session.JoinRoom(context.Background(), testRoom)
	if !IsMatrixError(room.JoinError(), ErrCodeForbidden) {
		t.Errorf("JoinError() = %v, want M_FORBIDDEN", room.JoinError())
	}

	// The room is still usable.
	members, err := room.Members(context.Background())
	if err != nil {
		t.Fatalf("Members after failed join: %v", err)
	}
	if len(members) != 1 {
		t.Errorf("members = %v, want one member", members)
	}
}

func TestMembers(t *testing.T) {
	_, session := newTestSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.Method == http.MethodPost {
			writeJSON(writer, JoinResponse{RoomID: testRoom})
			return
		}
		assertAuth(t, request, "test-token")
		if request.URL.Path != "/_matrix/client/r0/rooms/!reports:example.org/joined_members" {
			t.Errorf("unexpected path: %s", request.URL.Path)
		}
		io.WriteString(writer, `{"joined": {
			"@a:h1": {"display_name": "A"},
			"@b:h2": {},
			"@c:h1": {"avatar_url": "mxc://h1/abc"}
		}}`)
	}))

	members, err := session.JoinRoom(context.Background(), testRoom).Members(context.Background())
	if err != nil {
		t.Fatalf("Members failed: %v", err)
	}
	sort.Strings(members)
	want := []string{"@a:h1", "@b:h2", "@c:h1"}
	if strings.Join(members, ",") != strings.Join(want, ",") {
		t.Errorf("members = %v, want %v", members, want)
	}
}

func TestMembersErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{"forbidden", http.StatusForbidden, `{"errcode": "M_FORBIDDEN", "error": "not in room"}`,
			func(err error) bool { return IsMatrixError(err, ErrCodeForbidden) }},
		{"malformed", http.StatusOK, `{"joined": [`,
			func(err error) bool { return errors.Is(err, ErrMalformedResponse) }},
		{"missing joined", http.StatusOK, `{}`,
			func(err error) bool { return errors.Is(err, ErrMalformedResponse) }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, session := newTestSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				if request.Method == http.MethodPost {
					writeJSON(writer, JoinResponse{RoomID: testRoom})
					return
				}
				writer.WriteHeader(test.status)
				io.WriteString(writer, test.body)
			}))

			_, err := session.JoinRoom(context.Background(), testRoom).Members(context.Background())
			if err == nil || !test.check(err) {
				t.Errorf("Members error = %v", err)
			}
		})
	}
}

func TestSendMessage(t *testing.T) {
	var (
		mu             sync.Mutex
		transactionIDs []string
		content        MessageContent
	)
	prefix := "/_matrix/client/r0/rooms/!reports:example.org/send/m.room.message/"
	fakeClock, session := newTestSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.Method == http.MethodPost {
			writeJSON(writer, JoinResponse{RoomID: testRoom})
			return
		}
		assertAuth(t, request, "test-token")
		if request.Method != http.MethodPut || !strings.HasPrefix(request.URL.Path, prefix) {
			t.Errorf("unexpected request: %s %s", request.Method, request.URL.Path)
		}
		mu.Lock()
		transactionIDs = append(transactionIDs, strings.TrimPrefix(request.URL.Path, prefix))
		mu.Unlock()
		if err := json.NewDecoder(request.Body).Decode(&content); err != nil {
			t.Errorf("failed to decode message: %v", err)
		}
		writeJSON(writer, SendEventResponse{EventID: "$event1"})
	}))

	room := session.JoinRoom(context.Background(), testRoom)
	text := "| Homeserver | Version |\n| \"quoted\" | <a href=\"x\">1.0</a> |\n"
	eventID, err := room.SendMessage(context.Background(), text)
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if eventID != "$event1" {
		t.Errorf("event ID = %q, want $event1", eventID)
	}

	if content.MsgType != "m.text" || content.Format != FormatHTML {
		t.Errorf("content = %+v, want m.text with HTML format", content)
	}
	if content.Body != text {
		t.Errorf("body = %q, want %q", content.Body, text)
	}
	if want := "<pre><code>" + text + "</code></pre>"; content.FormattedBody != want {
		t.Errorf("formatted_body = %q, want %q", content.FormattedBody, want)
	}

	fakeClock.Advance(time.Second)
	if _, err := room.SendMessage(context.Background(), "second"); err != nil {
		t.Fatalf("second SendMessage failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []string{"hsbot-1767225600000-1", "hsbot-1767225601000-2"}
	if strings.Join(transactionIDs, ",") != strings.Join(want, ",") {
		t.Errorf("transaction IDs = %v, want %v", transactionIDs, want)
	}
}

func TestRoomRequiresJoin(t *testing.T) {
	for _, room := range []*Room{nil, {}} {
		if _, err := room.Members(context.Background()); !errors.Is(err, ErrNotJoined) {
			t.Errorf("Members on unjoined room = %v, want ErrNotJoined", err)
		}
		if _, err := room.SendMessage(context.Background(), "x"); !errors.Is(err, ErrNotJoined) {
			t.Errorf("SendMessage on unjoined room = %v, want ErrNotJoined", err)
		}
	}
}

func TestClosedSession(t *testing.T) {
	_, session := newTestSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writeJSON(writer, JoinResponse{RoomID: testRoom})
	}))
	room := session.JoinRoom(context.Background(), testRoom)

	if err := session.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := session.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	if _, err := room.Members(context.Background()); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Members after Close = %v, want ErrSessionClosed", err)
	}
	if _, err := room.SendMessage(context.Background(), "x"); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("SendMessage after Close = %v, want ErrSessionClosed", err)
	}
	if err := session.JoinRoom(context.Background(), testRoom).JoinError(); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("JoinRoom after Close: JoinError() = %v, want ErrSessionClosed", err)
	}
}

func TestNewPreformattedMessage(t *testing.T) {
	content := NewPreformattedMessage("<b>1.0</b>")
	if content.FormattedBody != "<pre><code><b>1.0</b></code></pre>" {
		t.Errorf("formatted_body = %q, want markup embedded verbatim", content.FormattedBody)
	}
}

func assertAuth(t *testing.T, request *http.Request, expectedToken string) {
	t.Helper()
	auth := request.Header.Get("Authorization")
	expected := "Bearer " + expectedToken
	if auth != expected {
		t.Errorf("unexpected auth header: got %q, want %q", auth, expected)
	}
}

func writeJSON(writer http.ResponseWriter, value any) {
	writer.Header().Set("Content-Type", "application/json")
	json.NewEncoder(writer).Encode(value)
}
