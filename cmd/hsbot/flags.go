// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/hsbot/lib/config"
)

// options holds the command-line flags. Non-empty flag values override
// the corresponding config file values.
type options struct {
	configPath  string
	schedule    string
	once        bool
	dryRun      bool
	logLevel    string
	showVersion bool
}

func parseFlags(args []string) (options, error) {
	var opts options
	flagSet := pflag.NewFlagSet("hsbot", pflag.ContinueOnError)
	flagSet.StringVar(&opts.configPath, "config", "", "path to the config file (default: $"+config.EnvVar+")")
	flagSet.StringVar(&opts.schedule, "schedule", "", `cron expression to report on, e.g. "0 9 * * 1" or "@daily"`)
	flagSet.BoolVar(&opts.once, "once", false, "run a single report even if the config sets a schedule")
	flagSet.BoolVar(&opts.dryRun, "dry-run", false, "print the report instead of sending it")
	flagSet.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flagSet.BoolVar(&opts.showVersion, "version", false, "print version information and exit")
	flagSet.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n  hsbot [flags]\n\nFlags:\n%s", flagSet.FlagUsages())
	}

	if err := flagSet.Parse(args); err != nil {
		return options{}, err
	}
	if flagSet.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}
	if opts.once && opts.schedule != "" {
		return options{}, fmt.Errorf("--once and --schedule are mutually exclusive")
	}
	return opts, nil
}

// apply copies flag overrides into cfg.
func (opts options) apply(cfg *config.Config) {
	if opts.schedule != "" {
		cfg.Schedule = opts.schedule
	}
	if opts.once {
		cfg.Schedule = ""
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
}
