package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blog.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFull(t *testing.T) {
	path := writeConfig(t, `
[server]
blog_name = "notes"
author = "Jo"
description = "assorted notes"
domain = "example.org"
addr = "127.0.0.1:9000"
db = "blog.db"

[server.footer_links]
git = "https://example.org/git"

[client]
addr = "https://example.org"
secret = "abc123"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	srv, err := cfg.ServerOrErr()
	if err != nil {
		t.Fatalf("ServerOrErr: %v", err)
	}
	if srv.BlogName != "notes" || srv.Domain != "example.org" || srv.Addr != "127.0.0.1:9000" || srv.DB != "blog.db" {
		t.Errorf("server config wrong: %+v", srv)
	}
	if srv.FooterLinks["git"] != "https://example.org/git" {
		t.Errorf("footer links wrong: %+v", srv.FooterLinks)
	}

	cli, err := cfg.ClientOrErr()
	if err != nil {
		t.Fatalf("ClientOrErr: %v", err)
	}
	if cli.Addr != "https://example.org" || cli.Secret != "abc123" {
		t.Errorf("client config wrong: %+v", cli)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
blog_name = "notes"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	srv, err := cfg.ServerOrErr()
	if err != nil {
		t.Fatalf("ServerOrErr: %v", err)
	}
	if srv.Addr != "127.0.0.1:8000" || srv.DB != "articles.db" {
		t.Errorf("defaults not applied: %+v", srv)
	}
}

func TestLoadMissingTables(t *testing.T) {
	path := writeConfig(t, `
[client]
addr = "https://example.org"
secret = "s"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := cfg.ServerOrErr(); err == nil {
		t.Error("ServerOrErr succeeded with no [server] table")
	}
	if _, err := cfg.ClientOrErr(); err != nil {
		t.Errorf("ClientOrErr: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("Load succeeded on a missing file")
	}
}
