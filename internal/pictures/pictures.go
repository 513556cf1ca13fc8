// Package pictures provides the outline drawings a session can load: a few
// built-in outlines drawn in code plus any image files in a directory.
package pictures

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maax3v3/zebra/internal/imaging"
)

// Default is the picture loaded when a view is first measured.
const Default = "balloons"

// ErrUnknownPicture is wrapped in the DecodeError for unknown identifiers.
var ErrUnknownPicture = errors.New("unknown picture")

var builtins = map[string]func() image.Image{
	"balloons": drawBalloons,
	"house":    drawHouse,
	"grid":     drawGrid,
}

var supportedExt = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".webp": true}

// Library resolves picture identifiers. The zero value serves built-ins only.
type Library struct {
	// Dir, when set, is searched for outline files. Identifiers are file
	// names such as "cat.png".
	Dir string
}

// Names lists the built-in pictures followed by the files found in Dir.
func (l *Library) Names() ([]string, error) {
	var names []string
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)

	if l.Dir == "" {
		return names, nil
	}
	entries, err := os.ReadDir(imaging.ExpandPath(l.Dir))
	if err != nil {
		return names, fmt.Errorf("listing pictures: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !supportedExt[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// Decode returns the source image for name.
func (l *Library) Decode(ctx context.Context, name string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if draw, ok := builtins[name]; ok {
		return draw(), nil
	}
	if l.Dir != "" && name == filepath.Base(name) && supportedExt[strings.ToLower(filepath.Ext(name))] {
		path := filepath.Join(imaging.ExpandPath(l.Dir), name)
		if _, err := os.Stat(path); err == nil {
			return imaging.Load(path)
		}
	}
	return nil, &imaging.DecodeError{Source: name, Err: ErrUnknownPicture}
}
