// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Hsbot posts a report of the homeserver software versions in use by
// the members of a Matrix room. It logs in, joins the report room,
// collects the distinct servers of the joined members, asks the
// federation tester for each server's version, and posts the result as
// a table. By default it runs once; with a cron schedule it stays up
// and posts a fresh report on every tick.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/hsbot/lib/clock"
	"github.com/bureau-foundation/hsbot/lib/config"
	"github.com/bureau-foundation/hsbot/lib/cron"
	"github.com/bureau-foundation/hsbot/lib/process"
	"github.com/bureau-foundation/hsbot/lib/sealed"
	"github.com/bureau-foundation/hsbot/lib/secret"
	"github.com/bureau-foundation/hsbot/lib/version"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if opts.showVersion {
		fmt.Printf("hsbot %s\n", version.Info())
		return nil
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}

	logger, err := newLogger(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	password, err := readPassword(cfg.Homeserver)
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}
	defer password.Close()

	clk := clock.Real()
	reporter, err := newBot(botConfig{
		Config:       cfg,
		Password:     password,
		DryRun:       opts.dryRun,
		Output:       os.Stdout,
		PlainPreview: !term.IsTerminal(int(os.Stdout.Fd())),
		Clock:        clk,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	if cfg.Schedule == "" {
		return reporter.runReport(ctx)
	}

	schedule, err := cron.Parse(cfg.Schedule)
	if err != nil {
		return err
	}
	return runScheduled(ctx, schedule, clk, logger, reporter.runReport)
}

// loadConfig loads the file named by --config, or by HSBOT_CONFIG when
// the flag is absent.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// readPassword returns the bot password: decrypted from a sealed
// password_file when identity_file is set, read from password_file when
// only that is set, otherwise the inline password.
func readPassword(homeserver config.HomeserverConfig) (*secret.Buffer, error) {
	if homeserver.IdentityFile != "" {
		return sealed.DecryptFile(homeserver.PasswordFile, homeserver.IdentityFile)
	}
	if homeserver.PasswordFile != "" {
		return secret.ReadFromPath(homeserver.PasswordFile)
	}
	return secret.NewFromString(homeserver.Password)
}
