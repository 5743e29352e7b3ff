// Package config loads runtime configuration for deskpad from a .env file, the environment and
// command-line flags bound onto the same keys.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/frudas24/deskpad/internal/prefs"
	"github.com/frudas24/deskpad/internal/viewport"
)

// Keys read by Load. Flags bind onto these names.
const (
	KeyServerURL      = "SERVER_URL"
	KeyDataDir        = "DATA_DIR"
	KeyUIPassword     = "UI_PASSWORD"
	KeyCalibPath      = "CALIB_PATH"
	KeyPrefsDriver    = "PREFS_DRIVER"
	KeyPrefsPath      = "PREFS_PATH"
	KeyScrollTickMs   = "SCROLL_OVERLAY_TICK_MS"
	KeyScrollMaxDelta = "SCROLL_OVERLAY_MAX_DELTA"
	KeyFullscreenFit  = "FULLSCREEN_FIT"
	KeyLogLevel       = "LOG_LEVEL"
	KeyMetricsAddr    = "METRICS_ADDR"
	KeyDebug          = "DEBUG"
)

const (
	defaultServerURL      = "http://127.0.0.1:8787"
	defaultDataDir        = "./data"
	defaultPrefsDriver    = prefs.DriverFile
	defaultScrollTickMs   = 50
	defaultScrollMaxDelta = 240
	defaultFullscreenFit  = "contain"
	defaultLogLevel       = "info"
)

// Config holds runtime configuration values.
type Config struct {
	ServerURL      string
	DataDir        string
	UIPassword     string
	CalibPath      string
	PrefsDriver    string
	PrefsPath      string
	ScrollTickMs   int
	ScrollMaxDelta int
	FullscreenFit  viewport.FitMode
	LogLevel       string
	MetricsAddr    string
	Debug          bool
}

// Load reads configuration through v. Values set on v (flags) win over the environment, which
// wins over DATA_DIR/.env. A nil v uses a fresh instance.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.New()
	}
	v.AutomaticEnv()
	v.SetDefault(KeyServerURL, defaultServerURL)
	v.SetDefault(KeyDataDir, defaultDataDir)
	v.SetDefault(KeyPrefsDriver, defaultPrefsDriver)
	v.SetDefault(KeyScrollTickMs, defaultScrollTickMs)
	v.SetDefault(KeyScrollMaxDelta, defaultScrollMaxDelta)
	v.SetDefault(KeyFullscreenFit, defaultFullscreenFit)
	v.SetDefault(KeyLogLevel, defaultLogLevel)

	dataDir := strings.TrimSpace(v.GetString(KeyDataDir))
	if err := loadEnvFile(filepath.Join(dataDir, ".env")); err != nil {
		return Config{}, err
	}

	cfg := Config{
		ServerURL:   strings.TrimSpace(v.GetString(KeyServerURL)),
		DataDir:     dataDir,
		UIPassword:  strings.TrimSpace(v.GetString(KeyUIPassword)),
		CalibPath:   strings.TrimSpace(v.GetString(KeyCalibPath)),
		PrefsDriver: strings.ToLower(strings.TrimSpace(v.GetString(KeyPrefsDriver))),
		PrefsPath:   strings.TrimSpace(v.GetString(KeyPrefsPath)),
		LogLevel:    strings.TrimSpace(v.GetString(KeyLogLevel)),
		MetricsAddr: strings.TrimSpace(v.GetString(KeyMetricsAddr)),
		Debug:       v.GetBool(KeyDebug),
	}

	u, err := url.Parse(cfg.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Config{}, fmt.Errorf("%s must be an http(s) url, got %q", KeyServerURL, cfg.ServerURL)
	}
	if cfg.CalibPath == "" {
		cfg.CalibPath = filepath.Join(cfg.DataDir, "calib.json")
	}

	switch cfg.PrefsDriver {
	case prefs.DriverFile, prefs.DriverMemory:
		if cfg.PrefsPath == "" {
			cfg.PrefsPath = filepath.Join(cfg.DataDir, "prefs.json")
		}
	case prefs.DriverSQLite:
		if cfg.PrefsPath == "" {
			cfg.PrefsPath = filepath.Join(cfg.DataDir, "prefs.db")
		}
	default:
		return Config{}, fmt.Errorf("%s must be file, sqlite or memory", KeyPrefsDriver)
	}

	scrollTick, err := intValue(v, KeyScrollTickMs)
	if err != nil {
		return Config{}, err
	}
	if scrollTick <= 0 {
		return Config{}, fmt.Errorf("%s must be > 0", KeyScrollTickMs)
	}
	cfg.ScrollTickMs = scrollTick

	scrollMaxDelta, err := intValue(v, KeyScrollMaxDelta)
	if err != nil {
		return Config{}, err
	}
	if scrollMaxDelta <= 0 {
		return Config{}, fmt.Errorf("%s must be > 0", KeyScrollMaxDelta)
	}
	cfg.ScrollMaxDelta = scrollMaxDelta

	switch fit := strings.ToLower(strings.TrimSpace(v.GetString(KeyFullscreenFit))); fit {
	case "contain", "cover":
		cfg.FullscreenFit = viewport.ParseFitMode(fit)
	default:
		return Config{}, fmt.Errorf("%s must be contain or cover", KeyFullscreenFit)
	}

	return cfg, nil
}

// intValue reads key as an integer, reporting unparsable values instead of defaulting to 0.
func intValue(v *viper.Viper, key string) (int, error) {
	raw := strings.TrimSpace(v.GetString(key))
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}

// loadEnvFile loads KEY=VALUE pairs from a .env file without overriding the environment.
func loadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
