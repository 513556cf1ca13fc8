package window

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"runtime"
	"sync"

	"golang.design/x/clipboard"
)

var (
	clipOnce     sync.Once
	clipErr      error
	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
)

func ensureClipboard() error {
	clipOnce.Do(func() {
		if runtime.GOOS == "linux" && os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			clipErr = errNoDisplay
			return
		}
		clipErr = clipboard.Init()
	})
	return clipErr
}

// writeClipboardImage publishes img to the clipboard as PNG.
func writeClipboardImage(img image.Image) error {
	if err := ensureClipboard(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtImage, buf.Bytes())
	return nil
}
