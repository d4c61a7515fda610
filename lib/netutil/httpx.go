// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides HTTP I/O helpers shared by the homeserver
// and federation tester clients.
//
// Response helpers (ReadResponse, DecodeResponse, ErrorBody) bound all
// body reads at MaxResponseSize so a misbehaving server cannot exhaust
// memory. IsTimeout classifies request errors that were caused by a
// deadline rather than by the network refusing the request.
package netutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
)

// MaxResponseSize bounds JSON API response body reads: 32 MB. The
// joined_members listing of a very large room is the biggest response
// the bot reads; it stays well below this.
const MaxResponseSize int64 = 32 << 20

// maxErrorBodySize bounds the error body quoted in diagnostics.
const maxErrorBodySize int64 = 4 << 10

// ReadResponse reads a JSON API response body up to MaxResponseSize bytes.
// Use instead of io.ReadAll when reading HTTP response bodies.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// DecodeResponse reads a JSON API response body (up to MaxResponseSize
// bytes) and JSON-decodes it into v.
func DecodeResponse(body io.Reader, v any) error {
	data, err := ReadResponse(body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	return json.Unmarshal(data, v)
}

// ErrorBody reads the start of an HTTP error response body for use in
// a diagnostic message. Read errors are ignored: a partial or empty
// body is still useful in a log line.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, maxErrorBodySize))
	return string(data)
}

// IsTimeout reports whether err came from a request deadline: a
// context deadline, an http.Client timeout, or a network-level timeout.
// Cancellation by the caller (context.Canceled) is not a timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
