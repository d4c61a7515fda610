// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package messaging wraps the part of the Matrix client-server API (r0)
// the version bot needs: discovering login flows, logging in, joining a
// room, listing its joined members, and posting a message.
//
// The call order is carried by types. [Client] is unauthenticated and
// only offers [Client.LoginFlows] and [Client.Login]. Login returns a
// [Session], which holds the access token in mmap-backed secret.Buffer
// memory and offers [Session.JoinRoom]. JoinRoom returns a [Room], the
// only value with [Room.Members] and [Room.SendMessage]. Callers must
// call Session.Close to release the protected memory.
//
// JoinRoom never fails outright. A failed join is logged and recorded
// on the Room, since the bot is normally a member already.
//
// Homeserver error responses are returned as [*MatrixError] with the
// Matrix error code and HTTP status code; [IsMatrixError] tests for a
// specific code. Undecodable 2xx responses wrap [ErrMalformedResponse].
//
// Messages are sent with a JSON encoder, so the text body is always
// correctly quoted. The HTML formatted_body embeds the text verbatim.
package messaging
