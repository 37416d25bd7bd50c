package geo

import (
	"errors"
	"sync"

	"village-ems/internal/models"
)

// ErrEmptyDraft means save was attempted before any geometry was drawn.
var ErrEmptyDraft = errors.New("no geometry drawn")

// Draft is a hazard polygon in the making. The draw interaction fills
// the geometry, the category defaults to Caution, and nothing persists
// until an explicit save posts it. Navigating away discards it.
type Draft struct {
	mu       sync.Mutex
	geometry [][]float64 // (lon, lat) pairs, matching the stored format
	category models.HazardCategory
}

func NewDraft() *Draft {
	return &Draft{category: models.HazardCaution}
}

// SetGeometry records the drawn ring in (lon, lat) order.
func (d *Draft) SetGeometry(ring [][]float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.geometry = ring
}

// SetCategory overrides the default Caution category.
func (d *Draft) SetCategory(category models.HazardCategory) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if category.IsValid() {
		d.category = category
	}
}

// Pending returns the working geometry and category.
func (d *Draft) Pending() ([][]float64, models.HazardCategory) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.geometry, d.category
}

// Take hands the draft over for saving and resets it. Returns an error
// when nothing has been drawn yet.
func (d *Draft) Take() ([][]float64, models.HazardCategory, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.geometry) == 0 {
		return nil, "", ErrEmptyDraft
	}
	geometry, category := d.geometry, d.category
	d.geometry = nil
	d.category = models.HazardCaution
	return geometry, category, nil
}

// Discard drops the pending polygon, e.g. on navigation away.
func (d *Draft) Discard() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.geometry = nil
	d.category = models.HazardCaution
}
