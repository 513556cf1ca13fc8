package palette

import (
	"errors"
	"sync"
	"testing"

	"github.com/maax3v3/zebra/internal/color"
)

func gray(v uint8) color.RGBA { return color.RGBA{R: v, G: v, B: v, A: 255} }

var (
	c0, c1, c2, c3, c4 = gray(0), gray(10), gray(20), gray(30), gray(40)
	cNew               = color.RGBA{R: 1, G: 2, B: 3, A: 255}
)

func newFive(t *testing.T) *Manager {
	t.Helper()
	m := New(5)
	if err := m.Initialize([]color.RGBA{c0, c1, c2, c3, c4}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return m
}

func colorsOf(slots []Slot) []color.RGBA {
	out := make([]color.RGBA, len(slots))
	for i, s := range slots {
		out[i] = s.Color
	}
	return out
}

func assertOrder(t *testing.T, m *Manager, want ...color.RGBA) {
	t.Helper()
	got := colorsOf(m.Slots())
	if len(got) != len(want) {
		t.Fatalf("got %d slots, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

// assertInvariants checks: N slots, exactly one selected, at the head.
func assertInvariants(t *testing.T, m *Manager) {
	t.Helper()
	slots := m.Slots()
	if len(slots) != m.Len() {
		t.Fatalf("slot count = %d, want %d", len(slots), m.Len())
	}
	selected := 0
	for i, s := range slots {
		if s.Selected {
			selected++
			if i != 0 {
				t.Errorf("selected slot at position %d, want head", i)
			}
		}
	}
	if selected != 1 {
		t.Errorf("%d slots selected, want 1", selected)
	}
}

func TestInitialize(t *testing.T) {
	m := newFive(t)
	assertOrder(t, m, c0, c1, c2, c3, c4)
	assertInvariants(t, m)
	if a, _ := m.Active(); a != c0 {
		t.Errorf("Active() = %v, want head color", a)
	}
}

func TestInitialize_Errors(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		colors []color.RGBA
		want   error
	}{
		{"too few", 5, []color.RGBA{c0, c1}, ErrSlotCount},
		{"too many", 2, []color.RGBA{c0, c1, c2}, ErrSlotCount},
		{"zero capacity", 0, nil, ErrSlotCount},
		{"duplicates", 3, []color.RGBA{c0, c1, c0}, ErrDuplicateColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.n).Initialize(tt.colors)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSelectColor_ExistingMovesToHead(t *testing.T) {
	m := newFive(t)
	if err := m.SelectColor(c2); err != nil {
		t.Fatal(err)
	}
	assertOrder(t, m, c2, c0, c1, c3, c4)
	assertInvariants(t, m)
	if a, _ := m.Active(); a != c2 {
		t.Errorf("Active() = %v, want %v", a, c2)
	}
}

func TestSelectColor_NewRecyclesTail(t *testing.T) {
	m := newFive(t)
	if err := m.SelectColor(cNew); err != nil {
		t.Fatal(err)
	}
	assertOrder(t, m, cNew, c0, c1, c2, c3)
	assertInvariants(t, m)
	for _, c := range colorsOf(m.Slots()) {
		if c == c4 {
			t.Error("previous tail color still present")
		}
	}
}

func TestSelectColor_RecyclingAfterUse(t *testing.T) {
	m := newFive(t)
	// Use c4 so that c3 becomes least recently used.
	if _, err := m.SelectSlot(4); err != nil {
		t.Fatal(err)
	}
	assertOrder(t, m, c4, c0, c1, c2, c3)
	m.SelectColor(cNew)
	assertOrder(t, m, cNew, c4, c0, c1, c2)
	assertInvariants(t, m)
}

func TestSelectColor_HeadColorKeepsOrder(t *testing.T) {
	m := newFive(t)
	m.SelectColor(c0)
	assertOrder(t, m, c0, c1, c2, c3, c4)
	assertInvariants(t, m)
}

func TestSelectColor_NeverDuplicates(t *testing.T) {
	m := newFive(t)
	for _, c := range []color.RGBA{cNew, c1, gray(99), cNew, c0, gray(98), gray(97), c3} {
		m.SelectColor(c)
		assertInvariants(t, m)
		seen := map[color.RGBA]bool{}
		for _, s := range m.Slots() {
			if seen[s.Color] {
				t.Fatalf("duplicate color %v in %v", s.Color, colorsOf(m.Slots()))
			}
			seen[s.Color] = true
		}
	}
}

func TestSelectSlot(t *testing.T) {
	m := newFive(t)
	got, err := m.SelectSlot(3)
	if err != nil {
		t.Fatal(err)
	}
	if got != c3 {
		t.Errorf("SelectSlot(3) = %v, want %v", got, c3)
	}
	assertOrder(t, m, c3, c0, c1, c2, c4)
	assertInvariants(t, m)

	for _, i := range []int{-1, 5} {
		if _, err := m.SelectSlot(i); !errors.Is(err, ErrUnknownSlot) {
			t.Errorf("SelectSlot(%d) err = %v, want ErrUnknownSlot", i, err)
		}
	}
	assertOrder(t, m, c3, c0, c1, c2, c4)
}

func TestNotInitialized(t *testing.T) {
	m := New(3)
	if _, err := m.Active(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Active err = %v", err)
	}
	if _, err := m.SelectSlot(0); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("SelectSlot err = %v", err)
	}
	if err := m.SelectColor(c0); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("SelectColor err = %v", err)
	}
}

func TestSlotsReturnsCopy(t *testing.T) {
	m := newFive(t)
	s := m.Slots()
	s[0].Color = cNew
	if a, _ := m.Active(); a != c0 {
		t.Error("mutating Slots() result changed the manager")
	}
}

func TestConcurrentSelection(t *testing.T) {
	m := newFive(t)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%3 == 0 {
				m.SelectColor(gray(uint8(100 + i)))
			} else {
				m.SelectSlot(i % 5)
			}
		}(i)
	}
	wg.Wait()
	assertInvariants(t, m)
}

func TestDefaultColorsDistinct(t *testing.T) {
	m := New(len(DefaultColors))
	if err := m.Initialize(DefaultColors); err != nil {
		t.Fatalf("DefaultColors rejected: %v", err)
	}
}
