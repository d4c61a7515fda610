// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import "github.com/bureau-foundation/hsbot/lib/ref"

// LoginFlow is one entry of the GET /login flow list.
type LoginFlow struct {
	Type string `json:"type"`
}

// LoginFlowsResponse is returned by GET /login.
type LoginFlowsResponse struct {
	Flows []LoginFlow `json:"flows"`
}

// LoginRequest is the POST /login body. Type is whatever flow the
// homeserver advertised first.
type LoginRequest struct {
	Type                     string `json:"type"`
	User                     string `json:"user"`
	Password                 string `json:"password"`
	InitialDeviceDisplayName string `json:"initial_device_display_name,omitempty"`
}

// AuthResponse is returned by a successful login.
type AuthResponse struct {
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token"`
	DeviceID    string `json:"device_id"`
}

// JoinResponse is returned by POST /rooms/{roomId}/join.
type JoinResponse struct {
	RoomID ref.RoomID `json:"room_id"`
}

// RoomMember holds the per-member profile in a joined_members response.
type RoomMember struct {
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// JoinedMembersResponse is returned by GET /rooms/{roomId}/joined_members.
// Joined is keyed by user ID.
type JoinedMembersResponse struct {
	Joined map[string]RoomMember `json:"joined"`
}

// HTML message format identifier for FormattedBody.
const FormatHTML = "org.matrix.custom.html"

// MessageContent is the content of an m.room.message event.
type MessageContent struct {
	MsgType       string `json:"msgtype"`
	Body          string `json:"body"`
	Format        string `json:"format,omitempty"`
	FormattedBody string `json:"formatted_body,omitempty"`
}

// NewPreformattedMessage returns an m.text message whose HTML rendering
// wraps text in <pre><code>. text is inserted into the HTML verbatim,
// so markup in text is interpreted by clients.
func NewPreformattedMessage(text string) MessageContent {
	return MessageContent{
		MsgType:       "m.text",
		Body:          text,
		Format:        FormatHTML,
		FormattedBody: "<pre><code>" + text + "</code></pre>",
	}
}

// SendEventResponse is returned by the send endpoint.
type SendEventResponse struct {
	EventID string `json:"event_id"`
}
