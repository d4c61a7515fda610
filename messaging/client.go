// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/bureau-foundation/hsbot/lib/clock"
	"github.com/bureau-foundation/hsbot/lib/netutil"
	"github.com/bureau-foundation/hsbot/lib/secret"
	"github.com/bureau-foundation/hsbot/lib/version"
)

// clientAPIPrefix is the client-server API root every request path is
// appended to.
const clientAPIPrefix = "/_matrix/client/r0"

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// HomeserverURL is the base URL of the Matrix homeserver (e.g., "https://matrix.example.org").
	HomeserverURL string
	// HTTPClient is used for all requests. If nil, http.DefaultClient is used.
	HTTPClient *http.Client
	// Clock drives transaction IDs. If nil, clock.Real() is used.
	Clock clock.Clock
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Client is an unauthenticated Matrix client. It holds the homeserver
// URL and HTTP transport, shared by the Sessions it creates.
type Client struct {
	baseURL    string
	httpClient *http.Client
	clock      clock.Clock
	logger     *slog.Logger
}

// NewClient creates a new unauthenticated Matrix client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.HomeserverURL == "" {
		return nil, fmt.Errorf("messaging: HomeserverURL is required")
	}

	// Request URLs are built by concatenation onto the string form, so
	// only the structure is checked here.
	parsed, err := url.Parse(config.HomeserverURL)
	if err != nil {
		return nil, fmt.Errorf("messaging: invalid HomeserverURL %q: %w", config.HomeserverURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("messaging: HomeserverURL %q must be absolute", config.HomeserverURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.HomeserverURL, "/") + clientAPIPrefix,
		httpClient: httpClient,
		clock:      clk,
		logger:     logger,
	}, nil
}

// LoginFlows returns the login flows the homeserver advertises, in the
// order it lists them.
func (c *Client) LoginFlows(ctx context.Context) ([]LoginFlow, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/login", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("messaging: fetching login flows failed: %w", err)
	}

	var response LoginFlowsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("%w: login flows: %w", ErrMalformedResponse, err)
	}
	return response.Flows, nil
}

// Login authenticates with username and password using the first login
// flow the homeserver advertises, and returns a Session holding the
// access token. The password Buffer is read but not closed; the caller
// retains ownership.
func (c *Client) Login(ctx context.Context, username string, password *secret.Buffer) (*Session, error) {
	if username == "" {
		return nil, fmt.Errorf("messaging: username is required for login")
	}
	if password == nil {
		return nil, fmt.Errorf("messaging: password is required for login")
	}

	flows, err := c.LoginFlows(ctx)
	if err != nil {
		return nil, err
	}
	if len(flows) == 0 {
		return nil, ErrNoLoginFlows
	}

	// Password is converted to string at the JSON serialization boundary.
	loginRequest := LoginRequest{
		Type:                     flows[0].Type,
		User:                     username,
		Password:                 password.String(),
		InitialDeviceDisplayName: "hsbot",
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/login", nil, loginRequest)
	if err != nil {
		return nil, fmt.Errorf("messaging: login failed: %w", err)
	}

	var authResponse AuthResponse
	if err := json.Unmarshal(body, &authResponse); err != nil {
		return nil, fmt.Errorf("%w: login: %w", ErrMalformedResponse, err)
	}
	if authResponse.AccessToken == "" {
		return nil, ErrMissingAccessToken
	}

	c.logger.Info("logged in to matrix",
		"user_id", authResponse.UserID,
		"device_id", authResponse.DeviceID,
		"login_type", loginRequest.Type,
	)

	return c.sessionFromAuth(&authResponse)
}

func (c *Client) sessionFromAuth(auth *AuthResponse) (*Session, error) {
	tokenBuffer, err := secret.NewFromString(auth.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("messaging: protecting access token: %w", err)
	}
	return &Session{
		client:      c,
		accessToken: tokenBuffer,
		userID:      auth.UserID,
		deviceID:    auth.DeviceID,
	}, nil
}

// doRequest performs an HTTP request to the homeserver and returns the
// response body. path is relative to the client API root. On 2xx,
// returns the body. Otherwise the failure is logged and returned as a
// *MatrixError, or as a plain status error when the body is not a
// Matrix error document. accessToken may be nil for unauthenticated
// endpoints.
func (c *Client) doRequest(ctx context.Context, method, path string, accessToken *secret.Buffer, requestBody any) ([]byte, error) {
	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("messaging: failed to encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("messaging: failed to create request: %w", err)
	}

	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if accessToken != nil {
		request.Header.Set("Authorization", "Bearer "+accessToken.String())
	}
	request.Header.Set("User-Agent", version.UserAgent())

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("messaging: request to %s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("messaging: failed to read response body: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}

	var matrixErr MatrixError
	if jsonErr := json.Unmarshal(responseBody, &matrixErr); jsonErr != nil || matrixErr.Code == "" {
		c.logger.Error("homeserver request failed",
			"method", method,
			"path", path,
			"status_code", response.StatusCode,
			"body", truncate(responseBody, 512),
		)
		return nil, fmt.Errorf("messaging: unexpected %d response from %s %s: %s",
			response.StatusCode, method, path, truncate(responseBody, 512))
	}
	matrixErr.StatusCode = response.StatusCode

	c.logger.Error("homeserver request failed",
		"method", method,
		"path", path,
		"status_code", response.StatusCode,
		"errcode", matrixErr.Code,
		"error", matrixErr.Message,
	)
	return nil, &matrixErr
}

func truncate(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "..."
}
