package testutil

import (
	"github.com/Norgate-AV/wizql/internal/snapshot"
	"github.com/Norgate-AV/wizql/internal/wizard101"
)

// ClientWindow builds a Wizard101 client window for scripted snapshots
func ClientWindow(hwnd uintptr, pid uint32) snapshot.Window {
	return snapshot.Window{
		Handle: snapshot.Handle(hwnd),
		PID:    pid,
		Class:  wizard101.WindowClass,
		Title:  "Wizard101",
	}
}

// MockRegistry replays scripted window captures. Each Snapshot call returns
// the next capture; the last one repeats once the script runs out.
type MockRegistry struct {
	Captures      [][]snapshot.Window
	SnapshotCalls []string
}

func NewMockRegistry() *MockRegistry {
	return &MockRegistry{
		Captures:      [][]snapshot.Window{},
		SnapshotCalls: []string{},
	}
}

func (m *MockRegistry) Snapshot(classFilter string) snapshot.Snapshot {
	m.SnapshotCalls = append(m.SnapshotCalls, classFilter)

	if len(m.Captures) == 0 {
		return snapshot.Snapshot{}
	}

	i := min(len(m.SnapshotCalls), len(m.Captures)) - 1
	return snapshot.Filter(m.Captures[i], classFilter)
}

// Helper methods for fluent configuration
func (m *MockRegistry) WithCapture(windows ...snapshot.Window) *MockRegistry {
	m.Captures = append(m.Captures, windows)
	return m
}

// InputCall is one recorded InputInjector call
type InputCall struct {
	Kind   string // "text" or "title"
	Handle snapshot.Handle
	Text   string
}

const (
	InputText  = "text"
	InputTitle = "title"
)

// MockInputInjector records all calls for verification
type MockInputInjector struct {
	Calls []InputCall
}

func NewMockInputInjector() *MockInputInjector {
	return &MockInputInjector{Calls: []InputCall{}}
}

func (m *MockInputInjector) SendText(h snapshot.Handle, text string) {
	m.Calls = append(m.Calls, InputCall{Kind: InputText, Handle: h, Text: text})
}

func (m *MockInputInjector) SetTitle(h snapshot.Handle, title string) {
	m.Calls = append(m.Calls, InputCall{Kind: InputTitle, Handle: h, Text: title})
}

// CallsFor returns the calls made against one window, in order
func (m *MockInputInjector) CallsFor(h snapshot.Handle) []InputCall {
	var out []InputCall
	for _, c := range m.Calls {
		if c.Handle == h {
			out = append(out, c)
		}
	}

	return out
}

// MoveCall is one recorded WindowPlacer call
type MoveCall struct {
	Handle snapshot.Handle
	X, Y   int
}

// MockPlacer records all calls for verification
type MockPlacer struct {
	MoveCalls []MoveCall
}

func NewMockPlacer() *MockPlacer {
	return &MockPlacer{MoveCalls: []MoveCall{}}
}

func (m *MockPlacer) MoveTo(h snapshot.Handle, x, y int) {
	m.MoveCalls = append(m.MoveCalls, MoveCall{Handle: h, X: x, Y: y})
}
