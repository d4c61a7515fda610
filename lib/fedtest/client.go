// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fedtest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/bureau-foundation/hsbot/lib/clock"
	"github.com/bureau-foundation/hsbot/lib/netutil"
	"github.com/bureau-foundation/hsbot/lib/ref"
	"github.com/bureau-foundation/hsbot/lib/version"
)

// Markers returned by Query in place of a version string.
const (
	// VersionTimeout means the tester did not answer within the timeout.
	VersionTimeout = "[TIMEOUT]"

	// VersionOffline means the tester reported that federation with
	// the server is not working.
	VersionOffline = "[OFFLINE]"

	// VersionError covers every other failure: transport errors,
	// non-200 responses, malformed JSON, or a report without a version.
	VersionError = "[ERROR]"
)

// DefaultBaseURL is the public federation tester report endpoint.
const DefaultBaseURL = "https://federationtester.matrix.org/api/report?server_name="

// DefaultTimeout bounds each query.
const DefaultTimeout = 10 * time.Second

// Config holds configuration for creating a federation tester Client.
type Config struct {
	// BaseURL is the prefix the server name is appended to. Defaults to
	// DefaultBaseURL.
	BaseURL string

	// Timeout bounds each query, from request start to the end of the
	// body read. Defaults to DefaultTimeout.
	Timeout time.Duration

	// HTTPClient is used for all requests. Defaults to a client with no
	// timeout of its own; Timeout is applied per request instead.
	HTTPClient *http.Client

	// Clock measures query latency for logs. Defaults to clock.Real().
	Clock clock.Clock

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client queries a federation tester. Safe for concurrent use.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	clock      clock.Clock
	logger     *slog.Logger
}

// NewClient creates a federation tester client. Returns an error if
// BaseURL is not an absolute http or https URL or Timeout is negative.
func NewClient(config Config) (*Client, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("fedtest: invalid base URL %q: %w", baseURL, err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("fedtest: base URL must be absolute http(s), got %q", baseURL)
	}

	timeout := config.Timeout
	if timeout < 0 {
		return nil, fmt.Errorf("fedtest: negative timeout %s", timeout)
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
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
		baseURL:    baseURL,
		timeout:    timeout,
		httpClient: httpClient,
		clock:      clk,
		logger:     logger,
	}, nil
}

// ReportURL returns the tester URL for server. The report table links
// each version to this URL.
func (c *Client) ReportURL(server ref.ServerName) string {
	return c.baseURL + server.String()
}

// report is the subset of the federation tester response Query reads.
// FederationOK is a pointer so a missing field is distinguishable from
// false.
type report struct {
	FederationOK *bool `json:"FederationOK"`
	Version      struct {
		Name    string `json:"name"`
		Version string `json:"version"`
		Error   string `json:"error"`
	} `json:"Version"`
}

// Query returns the version server runs, or one of VersionTimeout,
// VersionOffline or VersionError. It never returns an empty string.
func (c *Client) Query(ctx context.Context, server ref.ServerName) string {
	logger := c.logger.With("server", server.String())
	started := c.clock.Now()

	result, err := c.fetch(ctx, server)
	elapsed := c.clock.Now().Sub(started)
	if err != nil {
		if netutil.IsTimeout(err) {
			logger.Warn("federation tester timed out", "timeout", c.timeout, "error", err)
			return VersionTimeout
		}
		logger.Warn("federation tester query failed", "error", err)
		return VersionError
	}

	switch {
	case result.FederationOK == nil:
		logger.Warn("federation tester response missing FederationOK")
		return VersionError
	case !*result.FederationOK:
		logger.Info("server federation is not OK", "elapsed", elapsed)
		return VersionOffline
	case result.Version.Version == "":
		logger.Warn("federation tester reported no version",
			"version_error", result.Version.Error)
		return VersionError
	}

	logger.Debug("version retrieved",
		"software", result.Version.Name,
		"version", result.Version.Version,
		"elapsed", elapsed,
	)
	return result.Version.Version
}

func (c *Client) fetch(ctx context.Context, server ref.ServerName) (*report, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ReportURL(server), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set("User-Agent", version.UserAgent())

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", response.StatusCode, netutil.ErrorBody(response.Body))
	}

	body, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	var result report
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &result, nil
}
