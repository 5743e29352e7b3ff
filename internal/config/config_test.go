package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"github.com/frudas24/deskpad/internal/viewport"
)

// isolate points DATA_DIR at an empty temp dir and clears every key Load reads.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, key := range []string{KeyServerURL, KeyUIPassword, KeyCalibPath, KeyPrefsDriver, KeyPrefsPath,
		KeyScrollTickMs, KeyScrollMaxDelta, KeyFullscreenFit, KeyLogLevel, KeyMetricsAddr, KeyDebug} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv(KeyDataDir, dir)
	return dir
}

// TestLoad_Defaults verifies defaults derive paths from DATA_DIR.
func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerURL != defaultServerURL || cfg.ScrollTickMs != 50 || cfg.ScrollMaxDelta != 240 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.CalibPath != filepath.Join(dir, "calib.json") || cfg.PrefsPath != filepath.Join(dir, "prefs.json") {
		t.Fatalf("unexpected paths: %+v", cfg)
	}
	if cfg.FullscreenFit != viewport.FitContain {
		t.Fatalf("expected contain fit")
	}
}

// TestLoad_EnvFile verifies .env values apply but never override the environment.
func TestLoad_EnvFile(t *testing.T) {
	dir := isolate(t)
	env := "SERVER_URL=https://desk.local:8443\nexport SCROLL_OVERLAY_TICK_MS=20\nFULLSCREEN_FIT=cover\nPREFS_DRIVER=sqlite\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv(KeyScrollTickMs, "30")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerURL != "https://desk.local:8443" {
		t.Fatalf("expected server from .env, got %q", cfg.ServerURL)
	}
	if cfg.ScrollTickMs != 30 {
		t.Fatalf("expected env to win, got %d", cfg.ScrollTickMs)
	}
	if cfg.FullscreenFit != viewport.FitCover {
		t.Fatalf("expected cover fit")
	}
	if cfg.PrefsPath != filepath.Join(dir, "prefs.db") {
		t.Fatalf("expected sqlite default path, got %q", cfg.PrefsPath)
	}
}

// TestLoad_FlagsWin verifies values set on the viper instance override the environment.
func TestLoad_FlagsWin(t *testing.T) {
	isolate(t)
	t.Setenv(KeyServerURL, "http://env:1")
	v := viper.New()
	v.Set(KeyServerURL, "http://flag:2")
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerURL != "http://flag:2" {
		t.Fatalf("expected flag value, got %q", cfg.ServerURL)
	}
}

// TestLoad_Validation verifies bad values are rejected with the key name.
func TestLoad_Validation(t *testing.T) {
	cases := map[string][2]string{
		"tick zero":  {KeyScrollTickMs, "0"},
		"tick text":  {KeyScrollTickMs, "fast"},
		"delta":      {KeyScrollMaxDelta, "-1"},
		"fit":        {KeyFullscreenFit, "stretch"},
		"driver":     {KeyPrefsDriver, "redis"},
		"server":     {KeyServerURL, "desk.local"},
		"server ftp": {KeyServerURL, "ftp://desk.local"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			t.Setenv(kv[0], kv[1])
			if _, err := Load(nil); err == nil {
				t.Fatalf("expected error for %s=%s", kv[0], kv[1])
			}
		})
	}
}
