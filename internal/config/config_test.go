package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	wantFav, err := expandPath(defaultFavoritesPath)
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	if cfg.FavoritesPath != wantFav {
		t.Fatalf("FavoritesPath = %q, want %q", cfg.FavoritesPath, wantFav)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if cfg.RequestTimeout != 5*time.Second || cfg.RefreshInterval != 0 {
		t.Fatalf("durations = %v/%v, want 5s/0", cfg.RequestTimeout, cfg.RefreshInterval)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Fatalf("log settings = %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_url = "  http://10.0.0.5:9999  "
favorites_path = "  ~/favs.json "
log_file = "-"
log_level = "debug"
log_format = "json"
request_timeout = "2s"
refresh_interval = "30s"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://10.0.0.5:9999" {
		t.Fatalf("APIURL = %q", cfg.APIURL)
	}
	if cfg.FavoritesPath != filepath.Join(home, "favs.json") {
		t.Fatalf("FavoritesPath = %q", cfg.FavoritesPath)
	}
	if cfg.LogFile != "-" || cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Fatalf("log settings = %q/%q/%q", cfg.LogFile, cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.RequestTimeout != 2*time.Second || cfg.RefreshInterval != 30*time.Second {
		t.Fatalf("durations = %v/%v", cfg.RequestTimeout, cfg.RefreshInterval)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_url = "   "
request_timeout = ""
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL || cfg.RequestTimeout != defaultRequestTimeout {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`api_url = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_InvalidDurationFails(t *testing.T) {
	for _, body := range []string{`request_timeout = "soon"`, `refresh_interval = "-1s"`} {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "parse config") {
			t.Fatalf("Load(%s) error = %v, want parse config error", body, err)
		}
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
