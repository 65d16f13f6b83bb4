// Package config parses command-line flags for the server and the client.
// Every flag falls back to a TILEDUEL_* environment variable.
package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server holds settings for the game server binary.
type Server struct {
	Addr    string
	LogPath string
	Debug   bool
}

// Source selects how the client reads authoritative state.
type Source string

const (
	// SourceJSON reads GET /game/{id}/state.
	SourceJSON Source = "json"
	// SourcePage scrapes the script globals out of GET /game/{id}.
	SourcePage Source = "page"
)

// Client holds settings for the terminal client.
type Client struct {
	ServerURL    string
	GameID       int
	UserID       int
	Source       Source
	PollInterval time.Duration
	Watch        bool
	LogPath      string
	Debug        bool
}

// LoadServer parses server flags from args.
func LoadServer(args []string) (*Server, error) {
	cfg := &Server{}
	fs := flag.NewFlagSet("tileduel-server", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", env("TILEDUEL_ADDR", ":8080"), "server listen address, e.g. :8080")
	fs.StringVar(&cfg.LogPath, "log", env("TILEDUEL_LOG", "app.log"), "log file path")
	fs.BoolVar(&cfg.Debug, "debug", envBool("TILEDUEL_DEBUG", false), "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.Addr == "" {
		return nil, errors.New("addr must not be empty")
	}
	return cfg, nil
}

// LoadClient parses client flags from args and validates them.
func LoadClient(args []string) (*Client, error) {
	cfg := &Client{}
	var source string
	fs := flag.NewFlagSet("tileduel", flag.ContinueOnError)
	fs.StringVar(&cfg.ServerURL, "server", env("TILEDUEL_SERVER", "http://localhost:8080"), "game server base URL")
	fs.IntVar(&cfg.GameID, "game", envInt("TILEDUEL_GAME", 0), "game id to open")
	fs.IntVar(&cfg.UserID, "user", envInt("TILEDUEL_USER", 0), "local user id")
	fs.StringVar(&source, "source", env("TILEDUEL_SOURCE", string(SourceJSON)), "state source: json or page")
	fs.DurationVar(&cfg.PollInterval, "interval", envDuration("TILEDUEL_INTERVAL", 3*time.Second), "poll interval")
	fs.BoolVar(&cfg.Watch, "watch", envBool("TILEDUEL_WATCH", false), "subscribe to server push notifications")
	fs.StringVar(&cfg.LogPath, "log", env("TILEDUEL_LOG", "tileduel.log"), "log file path")
	fs.BoolVar(&cfg.Debug, "debug", envBool("TILEDUEL_DEBUG", false), "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.Source = Source(strings.ToLower(source))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")
	return cfg, nil
}

// Validate checks that the client settings are usable.
func (c *Client) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server url %q: scheme must be http or https", c.ServerURL)
	}
	if c.GameID <= 0 {
		return errors.New("game id must be positive")
	}
	if c.UserID <= 0 {
		return errors.New("user id must be positive")
	}
	if c.Source != SourceJSON && c.Source != SourcePage {
		return fmt.Errorf("unknown source %q", c.Source)
	}
	if c.PollInterval <= 0 {
		return errors.New("poll interval must be positive")
	}
	return nil
}

func env(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return def
}

func envBool(key string, def bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return def
}
