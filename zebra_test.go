package zebra

import (
	"errors"
	"image"
	stdcolor "image/color"
	"path/filepath"
	"testing"

	"github.com/maax3v3/zebra/internal/preprocess"
)

// ring draws a 40x40 white image with a black square outline from 10 to 30.
func ring() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			c := stdcolor.RGBA{255, 255, 255, 255}
			onX := (x == 10 || x == 30) && y >= 10 && y <= 30
			onY := (y == 10 || y == 30) && x >= 10 && x <= 30
			if onX || onY {
				c = stdcolor.RGBA{0, 0, 0, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestPrepareAndFill(t *testing.T) {
	var progress []int
	canvas, err := Prepare(ring(), 40, 40, func(p int) { progress = append(progress, p) })
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if len(progress) == 0 || progress[0] != 0 || progress[len(progress)-1] != 100 {
		t.Errorf("progress = %v, want 0..100", progress)
	}
	if w, h := canvas.Size(); w != 40 || h != 40 {
		t.Errorf("size = %dx%d", w, h)
	}

	canvas.SetColor(Color{R: 0, G: 0, B: 255, A: 255})
	if !canvas.Fill(20, 20) {
		t.Fatal("Fill inside the square painted nothing")
	}
	if canvas.Fill(10, 20) {
		t.Error("Fill on the outline should paint nothing")
	}
	img := canvas.Image()
	if got := img.RGBAAt(20, 20); got != (stdcolor.RGBA{0, 0, 255, 255}) {
		t.Errorf("inside = %v, want blue", got)
	}
	if got := img.RGBAAt(2, 2); got != (stdcolor.RGBA{255, 255, 255, 255}) {
		t.Errorf("outside = %v, want white", got)
	}
	if got := img.RGBAAt(10, 20); got != (stdcolor.RGBA{0, 0, 0, 255}) {
		t.Errorf("outline = %v, want black", got)
	}
}

func TestPrepare_Errors(t *testing.T) {
	if _, err := Prepare(nil, 10, 10, nil); err == nil {
		t.Error("nil image should fail")
	}
	if _, err := Prepare(ring(), 0, 10, nil); !errors.Is(err, preprocess.ErrNotReady) {
		t.Errorf("zero width = %v, want ErrNotReady", err)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#F00", Color{255, 0, 0, 255}, false},
		{"skyblue", Color{135, 206, 235, 255}, false},
		{"", Color{}, true},
		{"#12", Color{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPaintFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "ring.png")
	out := filepath.Join(dir, "painted.png")
	if err := SavePNG(in, ring()); err != nil {
		t.Fatal(err)
	}

	opts := DefaultOptions()
	opts.Width, opts.Height = 40, 40
	opts.Color = Color{R: 255, A: 255}
	opts.Taps = []image.Point{{20, 20}}
	if err := PaintFile(in, out, opts); err != nil {
		t.Fatalf("PaintFile: %v", err)
	}

	img, err := LoadImage(out)
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	r, g, b, _ := img.At(20, 20).RGBA()
	if r>>8 != 255 || g != 0 || b != 0 {
		t.Errorf("painted pixel = %v, want red", img.At(20, 20))
	}

	opts.Width = 0
	if err := PaintFile(in, out, opts); err == nil {
		t.Error("zero size should fail")
	}
	if err := PaintFile(filepath.Join(dir, "missing.png"), out, DefaultOptions()); err == nil {
		t.Error("missing input should fail")
	}
}
