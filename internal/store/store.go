package store

import (
	"errors"
	"sync"
	"time"

	"village-ems/internal/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrBadCredential = errors.New("invalid credentials")
)

// ReportRecord is a report as the backend stores it, content packed.
type ReportRecord struct {
	ID          int
	VillageID   int
	Content     string
	SubmittedAt time.Time
	Latitude    *float64
	Longitude   *float64
	IncidentAt  *time.Time
}

func (r ReportRecord) Row() models.ReportRow {
	return models.ReportRow{
		ID:          r.ID,
		Content:     r.Content,
		SubmittedAt: r.SubmittedAt,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		IncidentAt:  r.IncidentAt,
	}
}

// Store is the in-memory backing of the development stub server. It
// keeps the collection-per-entity shape a real persistence layer would
// have, guarded by one mutex.
type Store struct {
	mu sync.Mutex

	nextID    int
	users     []models.User
	passwords map[int]string // user id -> bcrypt hash

	villages      []models.Village
	reports       []ReportRecord
	notes         []models.Note
	announcements []models.Announcement
	sosRequests   []models.SOSRequest
	polygons      []models.HazardZone
	statuses      map[int]*models.VillageStatus // village id -> status

	revokedTokens map[string]struct{}
}

func New() *Store {
	s := &Store{
		nextID:        1,
		passwords:     make(map[int]string),
		statuses:      make(map[int]*models.VillageStatus),
		revokedTokens: make(map[string]struct{}),
	}
	s.villages = []models.Village{
		{ID: s.id(), Name: "Kampung Seri Aman"},
		{ID: s.id(), Name: "Kampung Sungai Batu"},
	}
	for _, v := range s.villages {
		s.statuses[v.ID] = &models.VillageStatus{
			VillageID:       v.ID,
			EmergencyStatus: models.EmergencyNormal,
			ServiceStatus:   models.ServiceOperational,
		}
	}
	return s
}

func (s *Store) id() int {
	id := s.nextID
	s.nextID++
	return id
}

// CreateUser registers a user with a pre-hashed password.
func (s *Store) CreateUser(user models.User, passwordHash string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return models.User{}, ErrEmailTaken
		}
	}
	user.ID = s.id()
	s.users = append(s.users, user)
	s.passwords[user.ID] = passwordHash
	return user, nil
}

// UserByEmail returns the user and stored password hash.
func (s *Store) UserByEmail(email string) (models.User, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, s.passwords[u.ID], nil
		}
	}
	return models.User{}, "", ErrNotFound
}

func (s *Store) UserByID(id int) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (s *Store) RevokeToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revokedTokens[token] = struct{}{}
}

func (s *Store) TokenRevoked(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, revoked := s.revokedTokens[token]
	return revoked
}

func (s *Store) Villages() []models.Village {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Village(nil), s.villages...)
}

func (s *Store) AddVillage(name string) models.Village {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := models.Village{ID: s.id(), Name: name}
	s.villages = append(s.villages, v)
	s.statuses[v.ID] = &models.VillageStatus{
		VillageID:       v.ID,
		EmergencyStatus: models.EmergencyNormal,
		ServiceStatus:   models.ServiceOperational,
	}
	return v
}

func (s *Store) AddReport(rec ReportRecord) ReportRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ID = s.id()
	if rec.SubmittedAt.IsZero() {
		rec.SubmittedAt = time.Now()
	}
	s.reports = append(s.reports, rec)
	return rec
}

// Reports returns reports for a village; villageID 0 means all.
func (s *Store) Reports(villageID int) []models.ReportRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]models.ReportRow, 0, len(s.reports))
	for _, r := range s.reports {
		if villageID != 0 && r.VillageID != villageID {
			continue
		}
		rows = append(rows, r.Row())
	}
	return rows
}

func (s *Store) DeleteReport(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.reports {
		if r.ID == id {
			s.reports = append(s.reports[:i], s.reports[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// TodaysReportCount counts reports submitted since local midnight.
func (s *Store) TodaysReportCount(villageID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	count := 0
	for _, r := range s.reports {
		if villageID != 0 && r.VillageID != villageID {
			continue
		}
		if !r.SubmittedAt.Before(midnight) {
			count++
		}
	}
	return count
}

func (s *Store) AddNote(note models.Note) models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	note.ID = s.id()
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now()
	}
	s.notes = append(s.notes, note)
	return note
}

func (s *Store) Notes() []models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Note(nil), s.notes...)
}

func (s *Store) AddAnnouncement(a models.Announcement) models.Announcement {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.id()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	s.announcements = append(s.announcements, a)
	return a
}

// Announcements returns global announcements plus those scoped to the
// village; villageID 0 returns everything.
func (s *Store) Announcements(villageID int) []models.Announcement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Announcement, 0, len(s.announcements))
	for _, a := range s.announcements {
		if villageID != 0 && a.VillageID != nil && *a.VillageID != villageID {
			continue
		}
		out = append(out, a)
	}
	return out
}

func (s *Store) AddSOS(req models.SOSRequest) models.SOSRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	req.ID = s.id()
	req.Status = models.SOSStatusActive
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}
	s.sosRequests = append(s.sosRequests, req)
	return req
}

func (s *Store) SOSRequests(villageID int) []models.SOSRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Scope by the reporting user's village.
	byUser := make(map[int]*models.User, len(s.users))
	for i := range s.users {
		byUser[s.users[i].ID] = &s.users[i]
	}
	out := make([]models.SOSRequest, 0, len(s.sosRequests))
	for _, r := range s.sosRequests {
		if villageID != 0 {
			u := byUser[r.UserID]
			if u == nil || u.VillageID == nil || *u.VillageID != villageID {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

func (s *Store) ResolveSOS(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sosRequests {
		if s.sosRequests[i].ID == id {
			s.sosRequests[i].Status = models.SOSStatusResolved
			return nil
		}
	}
	return ErrNotFound
}

// CleanupSOS removes resolved requests and returns how many were dropped.
func (s *Store) CleanupSOS() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.sosRequests[:0]
	removed := 0
	for _, r := range s.sosRequests {
		if r.Status == models.SOSStatusResolved {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	s.sosRequests = kept
	return removed
}

func (s *Store) AddPolygon(zone models.HazardZone) models.HazardZone {
	s.mu.Lock()
	defer s.mu.Unlock()
	zone.ID = s.id()
	if zone.CreatedAt.IsZero() {
		zone.CreatedAt = time.Now()
	}
	s.polygons = append(s.polygons, zone)
	return zone
}

func (s *Store) Polygons() []models.HazardZone {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.HazardZone(nil), s.polygons...)
}

func (s *Store) DeletePolygon(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.polygons {
		if p.ID == id {
			s.polygons = append(s.polygons[:i], s.polygons[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Status returns the stored status for a village; villageID 0 falls
// back to the first village.
func (s *Store) Status(villageID int) (models.VillageStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if villageID == 0 && len(s.villages) > 0 {
		villageID = s.villages[0].ID
	}
	st, ok := s.statuses[villageID]
	if !ok {
		return models.VillageStatus{}, ErrNotFound
	}
	return *st, nil
}

func (s *Store) UpdateStatus(villageID int, emergency, service string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if villageID == 0 && len(s.villages) > 0 {
		villageID = s.villages[0].ID
	}
	st, ok := s.statuses[villageID]
	if !ok {
		return ErrNotFound
	}
	st.EmergencyStatus = emergency
	st.ServiceStatus = service
	return nil
}
