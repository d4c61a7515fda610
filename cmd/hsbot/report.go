// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"

	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/hsbot/lib/clock"
	"github.com/bureau-foundation/hsbot/lib/config"
	"github.com/bureau-foundation/hsbot/lib/fedtest"
	"github.com/bureau-foundation/hsbot/lib/ref"
	"github.com/bureau-foundation/hsbot/lib/secret"
	"github.com/bureau-foundation/hsbot/lib/versiontable"
	"github.com/bureau-foundation/hsbot/messaging"
)

// versionOracle answers version queries. *fedtest.Client implements it.
type versionOracle interface {
	Query(ctx context.Context, server ref.ServerName) string
	ReportURL(server ref.ServerName) string
}

type botConfig struct {
	// Config must already be validated.
	Config *config.Config

	// Password is borrowed; the caller closes it.
	Password *secret.Buffer

	// DryRun prints the report to Output instead of sending it.
	DryRun bool
	Output io.Writer

	// PlainPreview strips terminal styling from the dry-run preview.
	PlainPreview bool

	// HTTPClient is shared by the homeserver and fedtester clients.
	// Defaults to http.DefaultClient.
	HTTPClient *http.Client

	Clock  clock.Clock
	Logger *slog.Logger
}

// bot runs report cycles. It holds no state between runs beyond its
// configuration.
type bot struct {
	matrix       *messaging.Client
	oracle       versionOracle
	linkPrefix   string
	username     string
	password     *secret.Buffer
	roomID       ref.RoomID
	exclusions   map[ref.ServerName]struct{}
	dryRun       bool
	plainPreview bool
	output       io.Writer
	logger       *slog.Logger
}

func newBot(config botConfig) (*bot, error) {
	cfg := config.Config

	matrix, err := messaging.NewClient(messaging.ClientConfig{
		HomeserverURL: cfg.Homeserver.URL,
		HTTPClient:    config.HTTPClient,
		Clock:         config.Clock,
		Logger:        config.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating matrix client: %w", err)
	}

	oracle, err := fedtest.NewClient(fedtest.Config{
		BaseURL:    cfg.Fedtester.URL,
		Timeout:    cfg.FedtesterTimeout(),
		HTTPClient: config.HTTPClient,
		Clock:      config.Clock,
		Logger:     config.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating federation tester client: %w", err)
	}

	output := config.Output
	if output == nil {
		output = io.Discard
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &bot{
		matrix:       matrix,
		oracle:       oracle,
		linkPrefix:   cfg.Fedtester.URL,
		username:     cfg.Homeserver.Username,
		password:     config.Password,
		roomID:       cfg.RoomID(),
		exclusions:   cfg.Exclusions(),
		dryRun:       config.DryRun,
		plainPreview: config.PlainPreview,
		output:       output,
		logger:       logger,
	}, nil
}

// runReport performs one complete report cycle: log in, join the room,
// collect member servers, query each server's version in host order,
// render the table, and send it once. Any failure before the send
// aborts the cycle. Version lookup failures do not; they appear in the
// report as markers.
func (b *bot) runReport(ctx context.Context) error {
	session, err := b.matrix.Login(ctx, b.username, b.password)
	if err != nil {
		return fmt.Errorf("logging in: %w", err)
	}
	defer session.Close()

	room := session.JoinRoom(ctx, b.roomID)

	members, err := room.Members(ctx)
	if err != nil {
		return fmt.Errorf("listing members of %s: %w", b.roomID, err)
	}

	servers := serverSet(memberServers(members, b.logger), b.exclusions)
	b.logger.Info("querying member servers",
		"room_id", b.roomID.String(),
		"members", len(members),
		"servers", len(servers),
		"excluded", len(b.exclusions),
	)

	records := make([]versiontable.Record, 0, len(servers))
	for _, server := range servers {
		if err := ctx.Err(); err != nil {
			return err
		}
		version := b.oracle.Query(ctx, server)
		b.logger.Debug("server version",
			"server", server.String(),
			"version", version,
			"report_url", b.oracle.ReportURL(server),
		)
		records = append(records, versiontable.Record{Host: server, Version: version})
	}

	report := versiontable.Render(records, b.linkPrefix)

	if b.dryRun {
		fmt.Fprint(b.output, report)
		fmt.Fprintln(b.output)
		preview := versiontable.Preview(records)
		if b.plainPreview {
			preview = ansi.Strip(preview)
		}
		fmt.Fprintln(b.output, preview)
		b.logger.Info("dry run, report not sent", "servers", len(records))
		return nil
	}

	if _, err := room.SendMessage(ctx, report); err != nil {
		return fmt.Errorf("sending report: %w", err)
	}
	return nil
}

// memberServers maps member user IDs to their server names. Identifiers
// without a usable server are dropped.
func memberServers(members []string, logger *slog.Logger) []ref.ServerName {
	servers := make([]ref.ServerName, 0, len(members))
	for _, member := range members {
		server, ok := ref.MemberServer(member)
		if !ok {
			logger.Debug("skipping member without server name", "member", member)
			continue
		}
		servers = append(servers, server)
	}
	return servers
}

// serverSet returns the distinct servers not in exclusions, sorted
// ascending.
func serverSet(servers []ref.ServerName, exclusions map[ref.ServerName]struct{}) []ref.ServerName {
	set := make([]ref.ServerName, 0, len(servers))
	for _, server := range servers {
		if _, excluded := exclusions[server]; excluded {
			continue
		}
		set = append(set, server)
	}
	slices.SortFunc(set, ref.ServerName.Compare)
	return slices.Compact(set)
}
