package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestServerConfigJSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.json")

	in := DefaultServerConfig()
	in.Listen = "0.0.0.0:25566"
	in.MaxPlayers = 5

	if err := SaveServerConfig(path, in); err != nil {
		t.Fatalf("SaveServerConfig: %v", err)
	}

	out, err := LoadServerConfig(path)
	if err != nil {
		t.Fatalf("LoadServerConfig: %v", err)
	}
	if *out != *in {
		t.Fatalf("got %+v, want %+v", out, in)
	}
}

func TestServerConfigYAMLRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yaml")

	in := DefaultServerConfig()
	in.MOTD = "koria yaml test"

	data, err := yaml.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err := LoadServerConfig(path)
	if err != nil {
		t.Fatalf("LoadServerConfig: %v", err)
	}
	if out.MOTD != in.MOTD {
		t.Fatalf("got %q, want %q", out.MOTD, in.MOTD)
	}
}

func TestServerConfigValidateRejectsEmptyListen(t *testing.T) {
	cfg := DefaultServerConfig()
	cfg.Listen = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty listen address")
	}
}

func TestProxyConfigValidateRejectsMissingUpstream(t *testing.T) {
	cfg := DefaultProxyConfig()
	cfg.Upstream = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing upstream")
	}
}

func TestIsYAMLPath(t *testing.T) {
	cases := map[string]bool{
		"cfg.yaml": true,
		"cfg.yml":  true,
		"cfg.json": false,
		"cfg":      false,
	}
	for path, want := range cases {
		if got := isYAMLPath(path); got != want {
			t.Errorf("isYAMLPath(%q) = %v, want %v", path, got, want)
		}
	}
}
