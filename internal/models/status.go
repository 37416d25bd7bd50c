package models

// Emergency levels
const (
	EmergencyNormal    = "Normal"
	EmergencyHighAlert = "High Alert"
	EmergencyCritical  = "Critical"
)

// Service levels
const (
	ServiceOperational = "Operational"
	ServiceMaintenance = "Maintenance"
	ServiceDown        = "Down"
)

// VillageStatus is the operational snapshot served per village.
// TodaysReports is authoritative when present; the client falls back to
// counting the loaded reports collection only when it is absent.
type VillageStatus struct {
	VillageID       int    `json:"village_id"`
	EmergencyStatus string `json:"emergency_status"`
	ServiceStatus   string `json:"service_status"`
	TodaysReports   *int   `json:"todays_reports,omitempty"`
}
