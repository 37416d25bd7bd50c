package models

import "time"

type HazardCategory string

const (
	HazardCaution HazardCategory = "Caution"
	HazardDanger  HazardCategory = "Danger"
)

func (c HazardCategory) IsValid() bool {
	return c == HazardCaution || c == HazardDanger
}

// HazardZone is a user-drawn polygon overlaid on the emergency map.
// Geometry is stored as a ring of (longitude, latitude) pairs; the
// rendering layer swaps the axes to (latitude, longitude).
type HazardZone struct {
	ID        int            `json:"id"`
	Category  HazardCategory `json:"category"`
	Geometry  [][]float64    `json:"geometry"`
	CreatedAt time.Time      `json:"created_at"`
}
