package models

import "time"

type SOSStatus string

const (
	SOSStatusActive   SOSStatus = "Active"
	SOSStatusResolved SOSStatus = "Resolved"
)

type SOSRequest struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Status    SOSStatus `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Active reports whether the request still needs attention.
func (s SOSRequest) Active() bool {
	return s.Status != SOSStatusResolved
}
