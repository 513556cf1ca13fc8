// Package config parses command-line flags for the zebra commands. Every flag
// can also be set through a ZEBRA_* environment variable, optionally loaded
// from a .env file; flags win over the environment.
package config

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/maax3v3/zebra/internal/color"
	"github.com/maax3v3/zebra/internal/pictures"
)

// Commands accepted by Parse.
const (
	CmdRender = "render"
	CmdServe  = "serve"
	CmdWindow = "window"
)

// Config holds the parsed arguments for one command.
type Config struct {
	Command     string
	Width       int
	Height      int
	Picture     string // picture name, resolved by pictures.Library
	PicturesDir string
	InPath      string // render only: outline file, overrides Picture
	OutPath     string // render only
	Swatches    bool   // render only: append the swatch bar
	Taps        []image.Point
	FillColor   color.RGBA
	Listen      string // serve only
	LogLevel    slog.Level
	Notify      bool
}

// LoadEnvFile loads variables from path into the process environment without
// overriding ones already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Parse parses args for cmd. lookup reads the environment (os.LookupEnv in
// production). Usage goes to output.
func Parse(cmd string, args []string, lookup func(string) (string, bool), output io.Writer) (Config, error) {
	switch cmd {
	case CmdRender, CmdServe, CmdWindow:
	default:
		return Config{}, fmt.Errorf("unknown command %q", cmd)
	}
	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}
	env := envReader{lookup: lookup}

	fset := flag.NewFlagSet("zebra "+cmd, flag.ContinueOnError)
	fset.SetOutput(output)

	width := fset.Int("width", env.getInt("ZEBRA_WIDTH", 600), "Picture width in pixels")
	height := fset.Int("height", env.getInt("ZEBRA_HEIGHT", 800), "Picture height in pixels")
	picture := fset.String("picture", env.getString("ZEBRA_PICTURE", pictures.Default), "Picture to load: a built-in name or a file in --pictures")
	picturesDir := fset.String("pictures", env.getString("ZEBRA_PICTURES_DIR", ""), "Directory with extra outline images (PNG, JPEG, WEBP)")
	logLevel := fset.String("log-level", env.getString("ZEBRA_LOG_LEVEL", "info"), "Log level: debug, info, warn or error")
	notify := fset.Bool("notify", env.getBool("ZEBRA_NOTIFY", false), "Send a desktop notification when a picture is ready")
	fillColor := fset.String("color", env.getString("ZEBRA_COLOR", "#E53935"), "Fill color for --tap, as hex or a color name")

	var inPath, outPath, listen *string
	var swatches *bool
	var taps, envTaps tapList
	switch cmd {
	case CmdRender:
		inPath = fset.String("in", env.getString("ZEBRA_IN", ""), "Outline image to color instead of --picture")
		outPath = fset.String("out", env.getString("ZEBRA_OUT", ""), "Path to the painted output image (required, must be .png)")
		if v, ok := env.lookup("ZEBRA_TAPS"); ok {
			for _, f := range strings.Fields(v) {
				if err := envTaps.Set(f); err != nil {
					return Config{}, fmt.Errorf("ZEBRA_TAPS: %w", err)
				}
			}
		}
		fset.Var(&taps, "tap", "Point to fill as x,y (repeatable)")
		swatches = fset.Bool("swatches", env.getBool("ZEBRA_SWATCHES", false), "Append the swatch bar below the picture")
	case CmdServe:
		listen = fset.String("listen", env.getString("ZEBRA_LISTEN", ":8080"), "Address to listen on")
	}

	fset.Usage = func() {
		fmt.Fprintf(output, "Usage: zebra %s [options]\n\nOptions:\n", cmd)
		fset.PrintDefaults()
		if cmd == CmdRender {
			fmt.Fprintf(output, "\nExample:\n  zebra render --picture=balloons --tap=170,220 --color=tomato --out=balloons.png\n")
		}
	}

	if env.err != nil {
		return Config{}, env.err
	}
	if err := fset.Parse(args); err != nil {
		return Config{}, err
	}
	if fset.NArg() > 0 {
		return Config{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fset.Args(), " "))
	}

	if *width <= 0 || *height <= 0 {
		return Config{}, fmt.Errorf("--width and --height must be positive, got %dx%d", *width, *height)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		return Config{}, fmt.Errorf("--log-level: %w", err)
	}
	fc, err := color.Parse(*fillColor)
	if err != nil {
		return Config{}, fmt.Errorf("--color: %w", err)
	}

	if len(taps) == 0 {
		taps = envTaps
	}

	cfg := Config{
		Command:     cmd,
		Width:       *width,
		Height:      *height,
		Picture:     *picture,
		PicturesDir: *picturesDir,
		Taps:        taps,
		FillColor:   fc,
		LogLevel:    level,
		Notify:      *notify,
	}

	switch cmd {
	case CmdRender:
		if *outPath == "" {
			return Config{}, fmt.Errorf("--out is required")
		}
		if ext := strings.ToLower(filepath.Ext(*outPath)); ext != ".png" {
			return Config{}, fmt.Errorf("--out must be a .png file, got %q", ext)
		}
		cfg.OutPath = *outPath
		cfg.InPath = *inPath
		cfg.Swatches = *swatches
		if cfg.InPath != "" {
			cfg.PicturesDir = filepath.Dir(cfg.InPath)
			cfg.Picture = filepath.Base(cfg.InPath)
		}
	case CmdServe:
		if *listen == "" {
			return Config{}, fmt.Errorf("--listen must not be empty")
		}
		cfg.Listen = *listen
	}
	return cfg, nil
}

// envReader reads typed defaults from the environment, keeping the first
// malformed value as err.
type envReader struct {
	lookup func(string) (string, bool)
	err    error
}

func (e *envReader) getString(key, def string) string {
	if v, ok := e.lookup(key); ok {
		return v
	}
	return def
}

func (e *envReader) getInt(key string, def int) int {
	v, ok := e.lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		e.fail(fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func (e *envReader) getBool(key string, def bool) bool {
	v, ok := e.lookup(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		e.fail(fmt.Errorf("%s: %w", key, err))
		return def
	}
	return b
}

func (e *envReader) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

// tapList collects repeated x,y points.
type tapList []image.Point

func (t *tapList) String() string {
	parts := make([]string, len(*t))
	for i, p := range *t {
		parts[i] = fmt.Sprintf("%d,%d", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

func (t *tapList) Set(s string) error {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return fmt.Errorf("invalid point %q: want x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return fmt.Errorf("invalid point %q: %w", s, err)
	}
	*t = append(*t, image.Pt(x, y))
	return nil
}
