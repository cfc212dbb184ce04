package main

import (
	"errors"
	"testing"

	"github.com/iafnetworkspa/elsevier-mcp/internal/config"
	"github.com/rs/zerolog"
)

func TestNewServer_MissingAPIKey(t *testing.T) {
	t.Setenv("ELSEVIER_API_KEY", "")
	configFile = ""

	_, _, err := newServer()
	if !errors.Is(err, config.ErrMissingAPIKey) {
		t.Fatalf("newServer() error = %v, want ErrMissingAPIKey", err)
	}
}

func TestNewServer(t *testing.T) {
	t.Setenv("ELSEVIER_API_KEY", "test-api-key")
	t.Setenv("ELSEVIER_HTTP_ADDR", "127.0.0.1:9999")
	configFile = ""

	server, cfg, err := newServer()
	if err != nil {
		t.Fatalf("newServer() error = %v", err)
	}
	if server == nil {
		t.Fatal("newServer returned nil")
	}
	if cfg.HTTPAddr != "127.0.0.1:9999" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
}

func TestSetLogLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)
	debug = false

	setLogLevel("WARN")
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Errorf("GlobalLevel = %v, want warn", zerolog.GlobalLevel())
	}

	setLogLevel("loud")
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Errorf("unknown level changed GlobalLevel to %v", zerolog.GlobalLevel())
	}

	debug = true
	defer func() { debug = false }()
	setLogLevel("error")
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Error("--debug must win over the configured level")
	}
}
