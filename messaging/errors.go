// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"errors"
	"fmt"
)

// MatrixError represents a structured error response from the Matrix homeserver.
// Callers can use errors.As to extract the structured information:
//
//	var matrixErr *MatrixError
//	if errors.As(err, &matrixErr) {
//	    if matrixErr.Code == ErrCodeForbidden { ... }
//	}
type MatrixError struct {
	// Code is the Matrix error code (e.g., "M_FORBIDDEN", "M_UNKNOWN_TOKEN").
	Code string `json:"errcode"`
	// Message is the human-readable error description from the server.
	Message string `json:"error"`
	// StatusCode is the HTTP status code of the response.
	StatusCode int `json:"-"`
}

func (e *MatrixError) Error() string {
	return fmt.Sprintf("matrix: %s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// Matrix error codes the bot can meet on the endpoints it uses.
const (
	ErrCodeForbidden       = "M_FORBIDDEN"
	ErrCodeUnknownToken    = "M_UNKNOWN_TOKEN"
	ErrCodeNotFound        = "M_NOT_FOUND"
	ErrCodeLimitExceeded   = "M_LIMIT_EXCEEDED"
	ErrCodeUnrecognized    = "M_UNRECOGNIZED"
	ErrCodeUnknown         = "M_UNKNOWN"
	ErrCodeBadJSON         = "M_BAD_JSON"
	ErrCodeUserDeactivated = "M_USER_DEACTIVATED"
)

// IsMatrixError checks whether err is a *MatrixError with the given error code.
func IsMatrixError(err error, code string) bool {
	var matrixErr *MatrixError
	if errors.As(err, &matrixErr) {
		return matrixErr.Code == code
	}
	return false
}

var (
	// ErrNoLoginFlows is returned by Login when the homeserver
	// advertises no login flows.
	ErrNoLoginFlows = errors.New("messaging: homeserver advertises no login flows")

	// ErrMissingAccessToken is returned by Login when a 2xx login
	// response carries no access_token.
	ErrMissingAccessToken = errors.New("messaging: login response has no access_token")

	// ErrMalformedResponse wraps decoding failures of 2xx responses.
	ErrMalformedResponse = errors.New("messaging: malformed homeserver response")

	// ErrNotJoined is returned by Room methods called on a Room that
	// was not obtained from Session.JoinRoom.
	ErrNotJoined = errors.New("messaging: room has not been joined")

	// ErrSessionClosed is returned by operations on a closed Session.
	ErrSessionClosed = errors.New("messaging: session is closed")
)
