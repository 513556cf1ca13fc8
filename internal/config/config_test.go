package config

import (
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/maax3v3/zebra/internal/color"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(CmdWindow, nil, nil, io.Discard)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Width != 600 || cfg.Height != 800 {
		t.Errorf("size = %dx%d, want 600x800", cfg.Width, cfg.Height)
	}
	if cfg.Picture != "balloons" {
		t.Errorf("picture = %q, want balloons", cfg.Picture)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("log level = %v, want info", cfg.LogLevel)
	}
	if cfg.FillColor != (color.RGBA{R: 0xE5, G: 0x39, B: 0x35, A: 0xFF}) {
		t.Errorf("fill color = %v", cfg.FillColor)
	}
}

func TestParse_Render(t *testing.T) {
	cfg, err := Parse(CmdRender, []string{
		"--out=painted.png", "--tap=1,2", "--tap", "30, 40", "--color=tomato", "--width=100", "--height=50",
	}, nil, io.Discard)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []image.Point{{1, 2}, {30, 40}}
	if !reflect.DeepEqual(cfg.Taps, want) {
		t.Errorf("taps = %v, want %v", cfg.Taps, want)
	}
	if cfg.FillColor != (color.RGBA{R: 255, G: 99, B: 71, A: 255}) {
		t.Errorf("fill color = %v, want tomato", cfg.FillColor)
	}
	if cfg.OutPath != "painted.png" || cfg.Width != 100 || cfg.Height != 50 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestParse_RenderInPath(t *testing.T) {
	in := filepath.Join("drawings", "cat.png")
	cfg, err := Parse(CmdRender, []string{"--in", in, "--out", "o.png"}, nil, io.Discard)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Picture != "cat.png" || cfg.PicturesDir != "drawings" {
		t.Errorf("picture %q in %q, want cat.png in drawings", cfg.Picture, cfg.PicturesDir)
	}
}

func TestParse_Environment(t *testing.T) {
	env := envMap(map[string]string{
		"ZEBRA_WIDTH":     "320",
		"ZEBRA_HEIGHT":    "240",
		"ZEBRA_PICTURE":   "house",
		"ZEBRA_LISTEN":    "127.0.0.1:9000",
		"ZEBRA_LOG_LEVEL": "debug",
		"ZEBRA_NOTIFY":    "true",
	})
	cfg, err := Parse(CmdServe, []string{"--height=480"}, env, io.Discard)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Width != 320 || cfg.Height != 480 {
		t.Errorf("size = %dx%d, want 320x480 (flag wins)", cfg.Width, cfg.Height)
	}
	if cfg.Picture != "house" || cfg.Listen != "127.0.0.1:9000" || !cfg.Notify {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("log level = %v, want debug", cfg.LogLevel)
	}
}

func TestParse_EnvironmentTaps(t *testing.T) {
	env := envMap(map[string]string{"ZEBRA_TAPS": "1,1 2,2", "ZEBRA_OUT": "x.png"})

	cfg, err := Parse(CmdRender, nil, env, io.Discard)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cfg.Taps) != 2 {
		t.Errorf("taps from env = %v, want 2 points", cfg.Taps)
	}

	cfg, err = Parse(CmdRender, []string{"--tap=9,9"}, env, io.Discard)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !reflect.DeepEqual(cfg.Taps, []image.Point{{9, 9}}) {
		t.Errorf("taps = %v, want flag to replace env", cfg.Taps)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		cmd     string
		args    []string
		env     map[string]string
		wantErr string
	}{
		{"unknown command", "paint", nil, nil, "unknown command"},
		{"render needs out", CmdRender, nil, nil, "--out is required"},
		{"render out must be png", CmdRender, []string{"--out=a.jpg"}, nil, "must be a .png"},
		{"bad tap", CmdRender, []string{"--out=a.png", "--tap=5"}, nil, "invalid point"},
		{"zero width", CmdWindow, []string{"--width=0"}, nil, "must be positive"},
		{"bad color", CmdWindow, []string{"--color=nope"}, nil, "--color"},
		{"bad level", CmdWindow, []string{"--log-level=loud"}, nil, "--log-level"},
		{"bad env int", CmdWindow, nil, map[string]string{"ZEBRA_WIDTH": "wide"}, "ZEBRA_WIDTH"},
		{"bad env bool", CmdWindow, nil, map[string]string{"ZEBRA_NOTIFY": "maybe"}, "ZEBRA_NOTIFY"},
		{"bad env taps", CmdRender, nil, map[string]string{"ZEBRA_TAPS": "1;2"}, "ZEBRA_TAPS"},
		{"empty listen", CmdServe, []string{"--listen="}, nil, "--listen"},
		{"extra args", CmdWindow, []string{"extra"}, nil, "unexpected arguments"},
		{"serve has no out flag", CmdServe, []string{"--out=a.png"}, nil, "flag provided but not defined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.cmd, tt.args, envMap(tt.env), io.Discard)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing file: %v", err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("ZEBRA_TEST_PICTURE=grid\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ZEBRA_TEST_PICTURE", "")
	os.Unsetenv("ZEBRA_TEST_PICTURE")
	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if got := os.Getenv("ZEBRA_TEST_PICTURE"); got != "grid" {
		t.Errorf("ZEBRA_TEST_PICTURE = %q, want grid", got)
	}
}
