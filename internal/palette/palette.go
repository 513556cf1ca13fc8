// Package palette manages the fixed set of on-screen color swatches. Swatches
// are kept in most-recently-used order; choosing a color that no swatch holds
// recycles the least recently used one.
package palette

import (
	"errors"
	"fmt"
	"sync"

	"github.com/maax3v3/zebra/internal/color"
)

var (
	ErrNotInitialized = errors.New("palette: not initialized")
	ErrSlotCount      = errors.New("palette: wrong number of colors")
	ErrDuplicateColor = errors.New("palette: duplicate color")
	ErrUnknownSlot    = errors.New("palette: no such slot")
)

// DefaultColors are the swatches a new session starts with.
var DefaultColors = []color.RGBA{
	{R: 0xE5, G: 0x39, B: 0x35, A: 0xFF}, // red
	{R: 0xFD, G: 0xD8, B: 0x35, A: 0xFF}, // yellow
	{R: 0x43, G: 0xA0, B: 0x47, A: 0xFF}, // green
	{R: 0x1E, G: 0x88, B: 0xE5, A: 0xFF}, // blue
	{R: 0x8E, G: 0x24, B: 0xAA, A: 0xFF}, // purple
}

// Slot is one swatch.
type Slot struct {
	Color    color.RGBA
	Selected bool
}

// Manager holds exactly Len() slots, head first. After every operation
// exactly one slot is selected and it is the head. Safe for concurrent use.
type Manager struct {
	mu    sync.Mutex
	n     int
	slots []Slot
}

// New returns a manager for n slots. It holds no slots until Initialize.
func New(n int) *Manager {
	return &Manager{n: n}
}

// Initialize replaces the slots with colors, in order. The head starts
// selected.
func (m *Manager) Initialize(colors []color.RGBA) error {
	if m.n < 1 || len(colors) != m.n {
		return fmt.Errorf("%w: got %d, want %d", ErrSlotCount, len(colors), m.n)
	}
	seen := make(map[color.RGBA]bool, len(colors))
	for _, c := range colors {
		if seen[c] {
			return fmt.Errorf("%w: %s", ErrDuplicateColor, c)
		}
		seen[c] = true
	}

	slots := make([]Slot, len(colors))
	for i, c := range colors {
		slots[i] = Slot{Color: c}
	}
	slots[0].Selected = true

	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots = slots
	return nil
}

// Len returns the fixed number of slots.
func (m *Manager) Len() int { return m.n }

// Slots returns a copy of the slots, most recently used first.
func (m *Manager) Slots() []Slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Slot, len(m.slots))
	copy(out, m.slots)
	return out
}

// Active returns the selected color.
func (m *Manager) Active() (color.RGBA, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.slots) == 0 {
		return color.RGBA{}, ErrNotInitialized
	}
	return m.slots[0].Color, nil
}

// SelectSlot selects the slot at position i (0 = head) and moves it to the
// head. It returns the slot's color.
func (m *Manager) SelectSlot(i int) (color.RGBA, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.slots) == 0 {
		return color.RGBA{}, ErrNotInitialized
	}
	if i < 0 || i >= len(m.slots) {
		return color.RGBA{}, fmt.Errorf("%w: %d", ErrUnknownSlot, i)
	}
	m.promote(i)
	return m.slots[0].Color, nil
}

// SelectColor selects the slot holding c. When no slot holds c, the least
// recently used slot is recolored to c and selected instead.
func (m *Manager) SelectColor(c color.RGBA) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.slots) == 0 {
		return ErrNotInitialized
	}
	for i := range m.slots {
		if m.slots[i].Color == c {
			m.promote(i)
			return nil
		}
	}
	tail := len(m.slots) - 1
	m.slots[tail].Color = c
	m.promote(tail)
	return nil
}

// promote deselects every slot, selects slot i and moves it to the head
// keeping the relative order of the others.
func (m *Manager) promote(i int) {
	s := m.slots[i]
	copy(m.slots[1:i+1], m.slots[:i])
	m.slots[0] = s
	for j := range m.slots {
		m.slots[j].Selected = j == 0
	}
}
