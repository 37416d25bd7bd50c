package models

import "time"

type Announcement struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`

	// Nil for global announcements.
	VillageID *int `json:"village_id,omitempty"`
}
