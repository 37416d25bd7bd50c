package geo

import (
	"sort"
	"strconv"

	"village-ems/internal/models"
)

type MarkerKind string

const (
	MarkerReport MarkerKind = "report"
	MarkerSOS    MarkerKind = "sos"
)

// Marker is a point rendered on the emergency map.
type Marker struct {
	Kind  MarkerKind
	ID    int
	Coord Coordinate
	Label string

	// Distance from the device position, for display ordering.
	DistanceKm float64
}

// Polygon is a hazard zone ring ready for rendering, already in
// (lat, lon) order.
type Polygon struct {
	ID       int
	Category models.HazardCategory
	Ring     []Coordinate
}

// Layers is the composed map layer input. Layers are independent and
// may be drawn in any order.
type Layers struct {
	Reports []Marker
	SOS     []Marker
	Hazards []Polygon
}

// Compose merges reports, SOS pings and hazard polygons into layer
// input. Reports lacking either coordinate are left off the map; a
// polygon without geometry is skipped, not an error.
func Compose(origin Coordinate, reports []models.Report, sos []models.SOSRequest, zones []models.HazardZone) Layers {
	var layers Layers

	for _, r := range reports {
		if r.Latitude == nil || r.Longitude == nil {
			continue
		}
		coord := Coordinate{Lat: *r.Latitude, Lon: *r.Longitude}
		layers.Reports = append(layers.Reports, Marker{
			Kind:       MarkerReport,
			ID:         r.ID,
			Coord:      coord,
			Label:      r.Title,
			DistanceKm: Distance(origin, coord),
		})
	}

	for _, s := range sos {
		coord := Coordinate{Lat: s.Latitude, Lon: s.Longitude}
		layers.SOS = append(layers.SOS, Marker{
			Kind:       MarkerSOS,
			ID:         s.ID,
			Coord:      coord,
			Label:      "SOS from user " + strconv.Itoa(s.UserID),
			DistanceKm: Distance(origin, coord),
		})
	}
	// Nearest distress first.
	sort.SliceStable(layers.SOS, func(i, j int) bool {
		return layers.SOS[i].DistanceKm < layers.SOS[j].DistanceKm
	})

	for _, z := range zones {
		if len(z.Geometry) == 0 {
			continue
		}
		ring := make([]Coordinate, 0, len(z.Geometry))
		for _, point := range z.Geometry {
			if len(point) < 2 {
				continue
			}
			// Stored geometry is (lon, lat); rendering wants (lat, lon).
			ring = append(ring, Coordinate{Lat: point[1], Lon: point[0]})
		}
		if len(ring) == 0 {
			continue
		}
		layers.Hazards = append(layers.Hazards, Polygon{
			ID:       z.ID,
			Category: z.Category,
			Ring:     ring,
		})
	}

	return layers
}
