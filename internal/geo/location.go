package geo

import (
	"context"
	"errors"
	"sync"
)

// Coordinate is a point in (latitude, longitude) order.
type Coordinate struct {
	Lat float64
	Lon float64
}

// ErrLocationUnavailable means the platform location service is absent
// or refused to answer.
var ErrLocationUnavailable = errors.New("location service unavailable")

// LocationProvider is the platform location service boundary.
type LocationProvider interface {
	Current(ctx context.Context) (Coordinate, error)
}

// Locator resolves the device position once and never re-polls. On
// failure it falls back to a fixed default and raises a flag the UI
// shows to the user. Draggable markers overwrite the working coordinate
// on drag release.
type Locator struct {
	mu       sync.Mutex
	provider LocationProvider
	fallback Coordinate

	resolved bool
	coord    Coordinate
	failed   bool
}

func NewLocator(provider LocationProvider, fallback Coordinate) *Locator {
	return &Locator{provider: provider, fallback: fallback}
}

// Resolve asks the provider once. Subsequent calls return the already
// resolved working coordinate.
func (l *Locator) Resolve(ctx context.Context) Coordinate {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.resolved {
		return l.coord
	}
	l.resolved = true

	if l.provider == nil {
		l.coord = l.fallback
		l.failed = true
		return l.coord
	}

	coord, err := l.provider.Current(ctx)
	if err != nil {
		l.coord = l.fallback
		l.failed = true
		return l.coord
	}
	l.coord = coord
	return l.coord
}

// DragTo overwrites the working coordinate after a marker drag release.
func (l *Locator) DragTo(coord Coordinate) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.resolved = true
	l.coord = coord
	l.failed = false
}

// Position returns the working coordinate and whether the original
// lookup failed.
func (l *Locator) Position() (Coordinate, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.coord, l.failed
}
