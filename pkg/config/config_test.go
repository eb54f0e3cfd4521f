package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	gserrors "github.com/matzehuels/gazestep/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
screen_width = 2560
screen_height = 1440
formats = ["svg", "png"]
style = "contrast"
scale = 3.0

[cache]
redis_addr = "localhost:6379"
ttl = "36h"

[serve]
addr = ":9000"
rate_limit = 2.5
burst = 5
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ScreenWidth != 2560 || cfg.ScreenHeight != 1440 {
		t.Errorf("screen = %gx%g, want 2560x1440", cfg.ScreenWidth, cfg.ScreenHeight)
	}
	if !reflect.DeepEqual(cfg.Formats, []string{"svg", "png"}) {
		t.Errorf("Formats = %v", cfg.Formats)
	}
	if cfg.Cache.TTL.Duration != 36*time.Hour {
		t.Errorf("Cache.TTL = %v, want 36h", cfg.Cache.TTL)
	}
	if cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("Cache.RedisAddr = %q", cfg.Cache.RedisAddr)
	}
	if cfg.ServeAddr() != ":9000" {
		t.Errorf("ServeAddr() = %q, want :9000", cfg.ServeAddr())
	}
	if cfg.Serve.RateLimit != 2.5 || cfg.Serve.Burst != 5 {
		t.Errorf("Serve rate = %g/%d, want 2.5/5", cfg.Serve.RateLimit, cfg.Serve.Burst)
	}

	opts := cfg.Options()
	opts.SetLayoutDefaults()
	if opts.FrameWidth != 2560.0/6 || opts.FrameHeight != 240 {
		t.Errorf("frame = %gx%g, want a sixth of the screen", opts.FrameWidth, opts.FrameHeight)
	}
	if opts.Style != "contrast" || opts.Scale != 3 {
		t.Errorf("Options() style/scale = %q/%g", opts.Style, opts.Scale)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !reflect.DeepEqual(cfg, Config{}) {
		t.Errorf("Load() = %+v, want zero config", cfg)
	}
	if cfg.ServeAddr() != DefaultServeAddr {
		t.Errorf("ServeAddr() = %q, want %q", cfg.ServeAddr(), DefaultServeAddr)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "colour = \"red\"\n", "unknown keys: colour"},
		{"bad format", "formats = [\"gif\"]\n", "invalid format"},
		{"bad style", "style = \"neon\"\n", "unknown style"},
		{"bad scale", "scale = 40.0\n", "scale must be"},
		{"negative screen", "screen_width = -1.0\n", "screen size"},
		{"bad ttl", "[cache]\nttl = \"soon\"\n", "read config"},
		{"negative rate", "[serve]\nrate_limit = -1.0\n", "rate_limit"},
		{"syntax", "screen_width = \n", "read config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestLoadUnknownKeyCode(t *testing.T) {
	_, err := Load(writeConfig(t, "[cache]\nredis = \"x\"\n"))
	if !gserrors.Is(err, gserrors.ErrCodeInvalidInput) {
		t.Errorf("Load() error = %v, want INVALID_INPUT", err)
	}
}

func TestDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath() error: %v", err)
	}
	if want := filepath.Join(dir, "gazestep", FileName); path != want {
		t.Errorf("DefaultPath() = %q, want %q", path, want)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("style = \"classic\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error: %v", err)
	}
	if cfg.Style != "classic" {
		t.Errorf("Style = %q, want classic", cfg.Style)
	}
}

func TestOptionsCopiesFormats(t *testing.T) {
	cfg := Config{Formats: []string{"svg"}}
	opts := cfg.Options()
	opts.Formats[0] = "png"
	if cfg.Formats[0] != "svg" {
		t.Error("Options() must not alias the config formats")
	}
}
