package manager

import (
	"errors"
	"slices"
	"sync"

	"github.com/zhubert/afterthought-core/session"
)

var errWindowGone = errors.New("window destroyed")

// fakeWindow is a scriptable Window.
type fakeWindow struct {
	label string
	pos   PhysicalPosition
	size  PhysicalSize
	scale float64

	posErr   error
	sizeErr  error
	scaleErr error
	focusErr error
	closeErr error

	mu      sync.Mutex
	focused int
	closed  bool
}

func (w *fakeWindow) Label() string { return w.label }

func (w *fakeWindow) OuterPosition() (PhysicalPosition, error) { return w.pos, w.posErr }

func (w *fakeWindow) OuterSize() (PhysicalSize, error) { return w.size, w.sizeErr }

func (w *fakeWindow) ScaleFactor() (float64, error) { return w.scale, w.scaleErr }

func (w *fakeWindow) SetFocus() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.focused++
	return w.focusErr
}

func (w *fakeWindow) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return w.closeErr
}

func (w *fakeWindow) focusCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.focused
}

func (w *fakeWindow) isClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// fakeHost holds a fixed set of windows.
type fakeHost struct {
	mu      sync.Mutex
	windows map[string]*fakeWindow
}

func newFakeHost(windows ...*fakeWindow) *fakeHost {
	h := &fakeHost{windows: make(map[string]*fakeWindow)}
	for _, w := range windows {
		h.windows[w.label] = w
	}
	return h
}

func (h *fakeHost) Window(label string) (Window, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	w, ok := h.windows[label]
	if !ok {
		return nil, false
	}
	return w, true
}

func (h *fakeHost) Windows() []Window {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Window, 0, len(h.windows))
	for _, w := range h.windows {
		out = append(out, w)
	}
	return out
}

// snapshotCall is one recorded SnapshotWriter.Write call.
type snapshotCall struct {
	paths    []string
	geometry map[string]session.WindowGeometry
}

// recordingWriter records every snapshot it is asked to write.
type recordingWriter struct {
	mu    sync.Mutex
	calls []snapshotCall
}

func (r *recordingWriter) Write(dbPaths []string, geometry map[string]session.WindowGeometry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, snapshotCall{paths: dbPaths, geometry: geometry})
}

func (r *recordingWriter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func (r *recordingWriter) snapshot() []snapshotCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

func (r *recordingWriter) last() snapshotCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[len(r.calls)-1]
}

// window builds a healthy window at scale 1.
func window(label string, x, y int32, width, height uint32) *fakeWindow {
	return &fakeWindow{
		label: label,
		pos:   PhysicalPosition{X: x, Y: y},
		size:  PhysicalSize{Width: width, Height: height},
		scale: 1,
	}
}
