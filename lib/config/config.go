// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/hsbot/lib/cron"
	"github.com/bureau-foundation/hsbot/lib/ref"
)

// EnvVar names the environment variable [Load] reads the config path
// from.
const EnvVar = "HSBOT_CONFIG"

// DefaultFedtesterURL is the public federation tester report endpoint.
// The server name is appended verbatim.
const DefaultFedtesterURL = "https://federationtester.matrix.org/api/report?server_name="

// Config is the complete hsbot configuration.
type Config struct {
	Homeserver HomeserverConfig `yaml:"homeserver" json:"homeserver"`

	// DeadServers are member servers that are never queried or
	// reported. Known-dead servers only ever produce timeouts.
	DeadServers []string `yaml:"dead_servers" json:"dead_servers"`

	Fedtester FedtesterConfig `yaml:"fedtester" json:"fedtester"`

	// Schedule is a cron expression. Empty means run once and exit.
	Schedule string `yaml:"schedule" json:"schedule"`

	Log LogConfig `yaml:"log" json:"log"`
}

// HomeserverConfig identifies the bot account and the report room.
type HomeserverConfig struct {
	// URL is the homeserver base URL, without the /_matrix suffix.
	URL string `yaml:"url" json:"url"`

	Username string `yaml:"username" json:"username"`

	// PasswordFile is read at startup. "-" reads from stdin, or prompts
	// when stdin is a terminal. Takes precedence over Password.
	PasswordFile string `yaml:"password_file" json:"password_file"`

	// IdentityFile, when set, names an age identity file and marks
	// PasswordFile as an age ciphertext sealed to that identity.
	IdentityFile string `yaml:"identity_file" json:"identity_file"`

	// Password is an inline password, accepted for configs migrated
	// from the old .conf format.
	Password string `yaml:"password" json:"password"`

	RoomID string `yaml:"room_id" json:"room_id"`
}

// FedtesterConfig configures the federation tester client.
type FedtesterConfig struct {
	// URL is the query prefix the server name is appended to.
	URL string `yaml:"url" json:"url"`

	// Timeout is a Go duration string bounding each query.
	// Default: 10s
	Timeout string `yaml:"timeout" json:"timeout"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: info
	Level string `yaml:"level" json:"level"`

	// Format is one of auto, text, json. Auto picks text when stderr is
	// a terminal and JSON otherwise.
	// Default: auto
	Format string `yaml:"format" json:"format"`
}

// Default returns the configuration every file is decoded on top of.
func Default() *Config {
	return &Config{
		Fedtester: FedtesterConfig{
			URL:     DefaultFedtesterURL,
			Timeout: "10s",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Load loads configuration from the file named by HSBOT_CONFIG.
func Load() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your hsbot config file, or use --config flag", EnvVar)
	}
	return LoadFile(path)
}

// LoadFile decodes the file at path on top of [Default] and expands
// variables. It does not validate; call [Config.Validate].
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	default:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		// An empty file decodes to io.EOF and leaves the defaults.
		if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	cfg.Homeserver.PasswordFile = expandVars(cfg.Homeserver.PasswordFile)
	cfg.Homeserver.IdentityFile = expandVars(cfg.Homeserver.IdentityFile)
	return cfg, nil
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} from the environment.
func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"auto", "text", "json"}
)

// Validate checks the configuration and returns every problem found,
// joined.
func (c *Config) Validate() error {
	var errs []error

	if c.Homeserver.URL == "" {
		errs = append(errs, errors.New("homeserver.url is required"))
	}
	if c.Homeserver.Username == "" {
		errs = append(errs, errors.New("homeserver.username is required"))
	}
	if c.Homeserver.PasswordFile == "" && c.Homeserver.Password == "" {
		errs = append(errs, errors.New("homeserver.password_file or homeserver.password is required"))
	}
	if c.Homeserver.IdentityFile != "" && (c.Homeserver.PasswordFile == "" || c.Homeserver.PasswordFile == "-") {
		errs = append(errs, errors.New("homeserver.identity_file requires homeserver.password_file to name a sealed file"))
	}
	if c.Homeserver.RoomID == "" {
		errs = append(errs, errors.New("homeserver.room_id is required"))
	} else if _, err := ref.ParseRoomID(c.Homeserver.RoomID); err != nil {
		errs = append(errs, fmt.Errorf("homeserver.room_id: %w", err))
	}

	if _, err := ref.ParseServerNames(c.DeadServers); err != nil {
		errs = append(errs, fmt.Errorf("dead_servers: %w", err))
	}

	if c.Fedtester.URL == "" {
		errs = append(errs, errors.New("fedtester.url is required"))
	}
	if timeout, err := time.ParseDuration(c.Fedtester.Timeout); err != nil {
		errs = append(errs, fmt.Errorf("fedtester.timeout: %w", err))
	} else if timeout <= 0 {
		errs = append(errs, fmt.Errorf("fedtester.timeout must be positive, got %s", c.Fedtester.Timeout))
	}

	if c.Schedule != "" {
		if _, err := cron.Parse(c.Schedule); err != nil {
			errs = append(errs, fmt.Errorf("schedule: %w", err))
		}
	}

	if !slices.Contains(logLevels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level must be one of: %v", logLevels))
	}
	if !slices.Contains(logFormats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format must be one of: %v", logFormats))
	}

	return errors.Join(errs...)
}

// FedtesterTimeout returns the parsed fedtester.timeout. Call only on a
// validated config.
func (c *Config) FedtesterTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Fedtester.Timeout)
	return timeout
}

// RoomID returns the parsed homeserver.room_id. Call only on a
// validated config.
func (c *Config) RoomID() ref.RoomID {
	roomID, _ := ref.ParseRoomID(c.Homeserver.RoomID)
	return roomID
}

// Exclusions returns dead_servers as a set. Call only on a validated
// config.
func (c *Config) Exclusions() map[ref.ServerName]struct{} {
	servers, _ := ref.ParseServerNames(c.DeadServers)
	set := make(map[ref.ServerName]struct{}, len(servers))
	for _, server := range servers {
		set[server] = struct{}{}
	}
	return set
}
