package fill

import (
	"bytes"
	"image"
	"math/rand"
	"testing"

	"github.com/maax3v3/zebra/internal/color"
	"github.com/maax3v3/zebra/internal/mask"
)

var (
	white = color.White
	red   = color.RGBA{R: 255, G: 0, B: 0, A: 255}
)

// maskFromRows builds a mask where '.' is paintable and '#' is fixed.
func maskFromRows(rows ...string) *mask.Mask {
	m := mask.New(len(rows[0]), len(rows))
	for y, r := range rows {
		for x, ch := range r {
			m.Set(x, y, ch == '.')
		}
	}
	return m
}

func whitePixels(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

func pixelAt(img *image.RGBA, x, y int) color.RGBA {
	return color.FromStdColor(img.RGBAAt(x, y))
}

// reference computes the 4-connected paintable component with a BFS queue.
func reference(m *mask.Mask, sx, sy int) map[image.Point]bool {
	out := map[image.Point]bool{}
	if !m.In(sx, sy) || !m.At(sx, sy) {
		return out
	}
	queue := []image.Point{{X: sx, Y: sy}}
	out[queue[0]] = true
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, d := range [4]image.Point{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			n := p.Add(d)
			if !m.In(n.X, n.Y) || !m.At(n.X, n.Y) || out[n] {
				continue
			}
			out[n] = true
			queue = append(queue, n)
		}
	}
	return out
}

func TestFill_FourQuadrants(t *testing.T) {
	// 5x5 grid split by a cross at row 2 and col 2
	m := maskFromRows(
		"..#..",
		"..#..",
		"#####",
		"..#..",
		"..#..",
	)
	px := whitePixels(5, 5)
	Fill(0, 0, m, px, red)

	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			want := white
			if x < 2 && y < 2 {
				want = red
			}
			if got := pixelAt(px, x, y); got != want {
				t.Errorf("(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestFill_PlusShapedCrossCorners(t *testing.T) {
	// 4x4 where each corner is a single paintable cell isolated by fixed cells
	m := maskFromRows(
		".##.",
		"####",
		"####",
		".##.",
	)
	px := whitePixels(4, 4)
	Fill(3, 3, m, px, red)

	if got := pixelAt(px, 3, 3); got != red {
		t.Errorf("seed corner = %v, want red", got)
	}
	for _, p := range []image.Point{{0, 0}, {3, 0}, {0, 3}} {
		if got := pixelAt(px, p.X, p.Y); got != white {
			t.Errorf("corner %v = %v, want white", p, got)
		}
	}
}

func TestFill_FixedSeedIsNoop(t *testing.T) {
	m := maskFromRows(
		"...",
		".#.",
		"...",
	)
	before := append([]byte(nil), m.Cells...)
	px := whitePixels(3, 3)
	pixBefore := append([]byte(nil), px.Pix...)

	Fill(1, 1, m, px, red)

	if !bytes.Equal(m.Cells, before) {
		t.Error("mask changed for a fixed seed")
	}
	if !bytes.Equal(px.Pix, pixBefore) {
		t.Error("pixels changed for a fixed seed")
	}
}

func TestFill_OutOfBoundsSeedIsNoop(t *testing.T) {
	for _, p := range []image.Point{{-1, 0}, {0, -1}, {3, 0}, {0, 3}} {
		m := maskFromRows("...", "...", "...")
		px := whitePixels(3, 3)
		pixBefore := append([]byte(nil), px.Pix...)
		Fill(p.X, p.Y, m, px, red)
		if !bytes.Equal(px.Pix, pixBefore) {
			t.Errorf("seed %v painted pixels", p)
		}
		if m.Count() != 9 {
			t.Errorf("seed %v consumed mask cells", p)
		}
	}
}

func TestFill_DiagonalNotConnected(t *testing.T) {
	m := maskFromRows(
		".#",
		"#.",
	)
	px := whitePixels(2, 2)
	Fill(0, 0, m, px, red)
	if got := pixelAt(px, 1, 1); got != white {
		t.Errorf("diagonal pixel painted: %v", got)
	}
}

func TestFill_ConsumesFilledCells(t *testing.T) {
	m := maskFromRows(
		"..#.",
		"..#.",
	)
	px := whitePixels(4, 2)
	Fill(0, 1, m, px, red)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if m.At(x, y) {
				t.Errorf("filled cell (%d,%d) still paintable", x, y)
			}
		}
		if !m.At(3, y) {
			t.Errorf("unreached cell (3,%d) was consumed", y)
		}
	}
}

func TestFill_ConcaveShapes(t *testing.T) {
	// A U-shape and a spiral need seeds pushed from both adjacent rows.
	tests := []struct {
		name   string
		rows   []string
		sx, sy int
	}{
		{
			name: "u shape seeded at the top of the left arm",
			rows: []string{
				".###.",
				".###.",
				".....",
			},
			sx: 0, sy: 0,
		},
		{
			name: "spiral",
			rows: []string{
				".......",
				"######.",
				".....#.",
				".###.#.",
				".#...#.",
				".#####.",
				".......",
			},
			sx: 3, sy: 4,
		},
		{
			name: "comb with several runs below one span",
			rows: []string{
				".......",
				".#.#.#.",
				".#.#.#.",
			},
			sx: 3, sy: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := maskFromRows(tt.rows...)
			want := reference(m, tt.sx, tt.sy)
			px := whitePixels(m.Width, m.Height)
			Fill(tt.sx, tt.sy, m, px, red)
			for y := 0; y < m.Height; y++ {
				for x := 0; x < m.Width; x++ {
					got := pixelAt(px, x, y) == red
					if got != want[image.Point{X: x, Y: y}] {
						t.Errorf("(%d,%d) painted=%v, want %v", x, y, got, !got)
					}
				}
			}
		})
	}
}

func TestFill_MatchesReferenceOnRandomMasks(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		w, h := 1+rng.Intn(24), 1+rng.Intn(24)
		m := mask.New(w, h)
		for j := range m.Cells {
			if rng.Intn(100) < 65 {
				m.Cells[j] = mask.Paintable
			}
		}
		sx, sy := rng.Intn(w), rng.Intn(h)
		want := reference(m, sx, sy)

		if n := Region(sx, sy, m.Clone()); n != len(want) {
			t.Fatalf("case %d: Region = %d, want %d", i, n, len(want))
		}

		px := whitePixels(w, h)
		Fill(sx, sy, m, px, red)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				painted := pixelAt(px, x, y) == red
				if painted != want[image.Point{X: x, Y: y}] {
					t.Fatalf("case %d (%dx%d seed %d,%d): (%d,%d) painted=%v", i, w, h, sx, sy, x, y, painted)
				}
			}
		}
	}
}

func TestFill_LargeRegionNoRecursion(t *testing.T) {
	// A serpentine corridor forces many spans; a per-pixel recursive fill
	// would need a call depth equal to the region size.
	w, h := 801, 801
	m := mask.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			paintable := y%2 == 0
			if y%4 == 1 && x == w-1 {
				paintable = true
			}
			if y%4 == 3 && x == 0 {
				paintable = true
			}
			m.Set(x, y, paintable)
		}
	}
	total := m.Count()
	px := image.NewRGBA(image.Rect(0, 0, w, h))

	Fill(0, 0, m, px, red)

	if m.Count() != 0 {
		t.Errorf("%d cells left paintable", m.Count())
	}
	painted := 0
	for i := 0; i < len(px.Pix); i += 4 {
		if px.Pix[i] == 255 && px.Pix[i+3] == 255 {
			painted++
		}
	}
	if painted != total {
		t.Errorf("painted %d pixels, want %d", painted, total)
	}
}

func TestRegion_CountsWithoutPainting(t *testing.T) {
	m := maskFromRows(
		"..#..",
		"..#..",
	)
	if n := Region(4, 1, m); n != 4 {
		t.Errorf("Region = %d, want 4", n)
	}
	if n := Region(4, 1, m); n != 0 {
		t.Errorf("second Region on consumed mask = %d, want 0", n)
	}
}

func TestFill_DimensionMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on mismatched pixel buffer")
		}
	}()
	Fill(0, 0, mask.New(3, 3), whitePixels(4, 3), red)
}
