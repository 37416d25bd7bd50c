package models

import (
	"encoding/json"
	"time"
)

// Report categories
const (
	ReportCategoryGeneral        = "General"
	ReportCategoryFlood          = "Flood"
	ReportCategoryFire           = "Fire"
	ReportCategoryLandslide      = "Landslide"
	ReportCategoryInfrastructure = "Infrastructure"
)

type Report struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`

	IncidentAt  *time.Time `json:"incident_at,omitempty"`
	SubmittedAt time.Time  `json:"submitted_at"`

	// Both coordinates must be present for the report to appear on the map.
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	// One-way flag, flipped optimistically after a resolve call.
	Resolved bool `json:"resolved"`
}

// ReportContent is the structured payload embedded as a JSON string in
// the report's generic content field on the wire.
type ReportContent struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// DecodeReportContent decodes the embedded content payload. Older records
// stored plain text; for those the raw string becomes the description
// under default title and category.
func DecodeReportContent(raw string) ReportContent {
	var content ReportContent
	if err := json.Unmarshal([]byte(raw), &content); err != nil || content.Title == "" && content.Description == "" {
		return ReportContent{
			Title:       "Villager Report",
			Category:    ReportCategoryGeneral,
			Description: raw,
		}
	}
	if content.Title == "" {
		content.Title = "Villager Report"
	}
	if content.Category == "" {
		content.Category = ReportCategoryGeneral
	}
	if content.Description == "" {
		content.Description = raw
	}
	return content
}

// ReportRow is a report as returned by the backend, with the structured
// fields still packed into Content.
type ReportRow struct {
	ID          int        `json:"id"`
	Content     string     `json:"content"`
	SubmittedAt time.Time  `json:"submitted_at"`
	Latitude    *float64   `json:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty"`
	IncidentAt  *time.Time `json:"incident_at,omitempty"`
}

// Decode unpacks the row into a Report.
func (r ReportRow) Decode() Report {
	content := DecodeReportContent(r.Content)
	return Report{
		ID:          r.ID,
		Title:       content.Title,
		Category:    content.Category,
		Description: content.Description,
		IncidentAt:  r.IncidentAt,
		SubmittedAt: r.SubmittedAt,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
	}
}
