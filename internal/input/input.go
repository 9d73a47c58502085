package input

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Key is a logical key of the demo, not a physical glfw key.
type Key int

const (
	KeyS Key = iota
	KeyA
	KeyD
	KeyW
	KeyE
	KeyQ
	KeyO
	KeyP
	KeyLShift
	KeyL
	KeyK
	KeyM
	KeyEscape
	KeyCount // Sentinel value for array sizing
)

var keyNames = [KeyCount]string{
	KeyS:      "S",
	KeyA:      "A",
	KeyD:      "D",
	KeyW:      "W",
	KeyE:      "E",
	KeyQ:      "Q",
	KeyO:      "O",
	KeyP:      "P",
	KeyLShift: "LShift",
	KeyL:      "L",
	KeyK:      "K",
	KeyM:      "M",
	KeyEscape: "Escape",
}

func (k Key) String() string {
	if k < 0 || k >= KeyCount {
		return "Unknown"
	}
	return keyNames[k]
}

// Manager tracks held keys and rising edges, fed from the glfw key callback.
type Manager struct {
	mu sync.RWMutex

	// Physical to logical mapping (one physical key can map to several keys)
	bindings map[glfw.Key][]Key

	// physical keys currently down, and how many of them hold each logical key
	down  map[glfw.Key]bool
	count [KeyCount]int

	held    [KeyCount]bool
	pressed [KeyCount]bool
}

// NewManager creates a Manager with the default bindings.
func NewManager() *Manager {
	m := &Manager{
		bindings: make(map[glfw.Key][]Key),
		down:     make(map[glfw.Key]bool),
	}

	m.Bind(glfw.KeyS, KeyS)
	m.Bind(glfw.KeyA, KeyA)
	m.Bind(glfw.KeyD, KeyD)
	m.Bind(glfw.KeyW, KeyW)
	m.Bind(glfw.KeyE, KeyE)
	m.Bind(glfw.KeyQ, KeyQ)
	m.Bind(glfw.KeyO, KeyO)
	m.Bind(glfw.KeyP, KeyP)
	m.Bind(glfw.KeyLeftShift, KeyLShift)
	m.Bind(glfw.KeyL, KeyL)
	m.Bind(glfw.KeyK, KeyK)
	m.Bind(glfw.KeyM, KeyM)
	m.Bind(glfw.KeyEscape, KeyEscape)

	return m
}

// Bind maps a physical key to a logical key. A logical key bound to several
// physical keys stays held until the last of them is released.
func (m *Manager) Bind(key glfw.Key, k Key) {
	if k < 0 || k >= KeyCount {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.bindings[key] = append(m.bindings[key], k)
	if m.down[key] {
		m.hold(k, false)
	}
}

// Unbind removes every mapping of a physical key.
func (m *Manager) Unbind(key glfw.Key) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.down[key] {
		for _, k := range m.bindings[key] {
			m.release(k)
		}
		delete(m.down, key)
	}
	delete(m.bindings, key)
}

// HandleKeyEvent processes one glfw key event. Repeat keeps a key held but
// never produces a new rising edge.
func (m *Manager) HandleKeyEvent(key glfw.Key, action glfw.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys, ok := m.bindings[key]
	if !ok {
		return
	}

	isDown := action == glfw.Press || action == glfw.Repeat
	if isDown == m.down[key] {
		return
	}

	if isDown {
		m.down[key] = true
		for _, k := range keys {
			m.hold(k, action == glfw.Press)
		}
		return
	}

	delete(m.down, key)
	for _, k := range keys {
		m.release(k)
	}
}

func (m *Manager) hold(k Key, edge bool) {
	if edge && m.count[k] == 0 {
		m.pressed[k] = true
	}
	m.count[k]++
	m.held[k] = true
}

func (m *Manager) release(k Key) {
	if m.count[k] > 0 {
		m.count[k]--
	}
	m.held[k] = m.count[k] > 0
}

// SetKeyCallback installs the manager as the window's key callback.
func (m *Manager) SetKeyCallback(window *glfw.Window) {
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		m.HandleKeyEvent(key, action)
	})
}

// Snapshot copies the current state for one frame.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{held: m.held, pressed: m.pressed}
}

// PostUpdate clears the rising-edge flags. Call once at the end of a frame.
func (m *Manager) PostUpdate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range KeyCount {
		m.pressed[i] = false
	}
}

// Snapshot is a read-only view of the keyboard for a single frame.
type Snapshot struct {
	held    [KeyCount]bool
	pressed [KeyCount]bool
}

// NewSnapshot builds a snapshot from explicit key lists. Pressed keys are
// also held, as they would be coming from a real device.
func NewSnapshot(held []Key, pressed []Key) Snapshot {
	var s Snapshot
	for _, k := range held {
		if k >= 0 && k < KeyCount {
			s.held[k] = true
		}
	}
	for _, k := range pressed {
		if k >= 0 && k < KeyCount {
			s.pressed[k] = true
			s.held[k] = true
		}
	}
	return s
}

// Held reports whether k is down this frame.
func (s Snapshot) Held(k Key) bool {
	if k < 0 || k >= KeyCount {
		return false
	}
	return s.held[k]
}

// Pressed reports whether k went down this frame.
func (s Snapshot) Pressed(k Key) bool {
	if k < 0 || k >= KeyCount {
		return false
	}
	return s.pressed[k]
}

// HeldKeys lists the held keys in enum order.
func (s Snapshot) HeldKeys() []Key {
	var keys []Key
	for k := range KeyCount {
		if s.held[k] {
			keys = append(keys, k)
		}
	}
	return keys
}
