package manager

import (
	"errors"
	"math"

	"github.com/zhubert/afterthought-core/logger"
	"github.com/zhubert/afterthought-core/session"
)

// PhysicalPosition is a window position in physical pixels.
type PhysicalPosition struct {
	X int32
	Y int32
}

// PhysicalSize is a window size in physical pixels.
type PhysicalSize struct {
	Width  uint32
	Height uint32
}

// Window is one live window of the host windowing layer.
type Window interface {
	Label() string
	OuterPosition() (PhysicalPosition, error)
	OuterSize() (PhysicalSize, error)
	ScaleFactor() (float64, error)
	SetFocus() error
	Close() error
}

// Host is the windowing layer the manager queries. It is implemented by the
// application shell.
type Host interface {
	// Window looks up a live window by label.
	Window(label string) (Window, bool)
	// Windows returns every live window, registered or not.
	Windows() []Window
}

var errBadScale = errors.New("invalid scale factor")

// collectGeometry returns the logical geometry of every registered window,
// keyed by database path. Windows that are gone or fail a query are left out.
func collectGeometry(host Host, databases map[string]string) map[string]session.WindowGeometry {
	geometry := make(map[string]session.WindowGeometry, len(databases))
	for label, path := range databases {
		w, ok := host.Window(label)
		if !ok {
			continue
		}
		if g, ok := queryGeometry(w); ok {
			geometry[path] = g
		}
	}
	return geometry
}

// queryGeometry asks w for its outer rectangle in logical units. ok is false
// if any query fails.
func queryGeometry(w Window) (session.WindowGeometry, bool) {
	g, err := windowGeometry(w)
	if err != nil {
		logger.WithWindow(w.Label()).Debug("skipping window geometry", "error", err)
		return session.WindowGeometry{}, false
	}
	return g, true
}

func windowGeometry(w Window) (session.WindowGeometry, error) {
	pos, err := w.OuterPosition()
	if err != nil {
		return session.WindowGeometry{}, err
	}
	size, err := w.OuterSize()
	if err != nil {
		return session.WindowGeometry{}, err
	}
	scale, err := w.ScaleFactor()
	if err != nil {
		return session.WindowGeometry{}, err
	}
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return session.WindowGeometry{}, errBadScale
	}
	return toLogical(pos, size, scale), nil
}

// toLogical divides physical coordinates by scale, rounding to the nearest
// logical pixel.
func toLogical(pos PhysicalPosition, size PhysicalSize, scale float64) session.WindowGeometry {
	return session.WindowGeometry{
		X:      int32(math.Round(float64(pos.X) / scale)),
		Y:      int32(math.Round(float64(pos.Y) / scale)),
		Width:  uint32(math.Round(float64(size.Width) / scale)),
		Height: uint32(math.Round(float64(size.Height) / scale)),
	}
}
