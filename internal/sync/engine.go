package sync

import (
	"context"
	"sync"

	"village-ems/internal/api"
	"village-ems/internal/models"
	"village-ems/internal/status"
	"village-ems/internal/view"

	"github.com/sirupsen/logrus"
)

// Collection names one independently fetched entity set.
type Collection string

const (
	CollectionReports       Collection = "reports"
	CollectionNotes         Collection = "notes"
	CollectionAnnouncements Collection = "announcements"
	CollectionSOS           Collection = "sos_requests"
	CollectionHazards       Collection = "hazard_zones"
	CollectionStatus        Collection = "village_status"
)

// Snapshot is the current per-entity state. A failed fetch leaves its
// collection stale and records the error; it never corrupts the others.
type Snapshot struct {
	Reports       []models.Report
	Notes         []models.Note
	Announcements []models.Announcement
	SOSRequests   []models.SOSRequest
	HazardZones   []models.HazardZone
	Status        *models.VillageStatus

	Failed map[Collection]error
}

// Engine issues the fetches a view requires and re-issues them whenever
// the (view, scope) pair changes. Every fan-out is stamped with the
// generation it was issued for; responses arriving after the generation
// moved on are dropped, so a late reply for village A can never bleed
// into village B's display.
type Engine struct {
	api     *api.Client
	weather status.WeatherLookup
	board   *status.Board
	log     *logrus.Entry

	role   models.Role
	screen view.Screen

	mu          sync.Mutex
	gen         uint64
	activeView  view.View
	scope       *int
	villageName string
	snap        Snapshot
	onUpdate    func()
}

func NewEngine(client *api.Client, weather status.WeatherLookup, board *status.Board, sess *models.Session, screen view.Screen, log *logrus.Entry) *Engine {
	return &Engine{
		api:         client,
		weather:     weather,
		board:       board,
		log:         log,
		role:        sess.User.Role,
		screen:      screen,
		villageName: sess.User.VillageName,
		activeView:  view.ViewOverview,
		snap:        Snapshot{Failed: make(map[Collection]error)},
	}
}

// OnUpdate registers the render notification callback.
func (e *Engine) OnUpdate(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onUpdate = fn
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		Reports:       append([]models.Report(nil), e.snap.Reports...),
		Notes:         append([]models.Note(nil), e.snap.Notes...),
		Announcements: append([]models.Announcement(nil), e.snap.Announcements...),
		SOSRequests:   append([]models.SOSRequest(nil), e.snap.SOSRequests...),
		HazardZones:   append([]models.HazardZone(nil), e.snap.HazardZones...),
		Failed:        make(map[Collection]error, len(e.snap.Failed)),
	}
	if e.snap.Status != nil {
		copied := *e.snap.Status
		snap.Status = &copied
	}
	for k, v := range e.snap.Failed {
		snap.Failed[k] = v
	}
	return snap
}

// SetView switches the active view and re-issues its fetches.
func (e *Engine) SetView(ctx context.Context, v view.View) {
	e.mu.Lock()
	if v == e.activeView {
		e.mu.Unlock()
		return
	}
	e.activeView = v
	e.mu.Unlock()
	e.Refresh(ctx)
}

// SetScope switches the supervisor's active village. Every scoped
// collection is dropped before the re-fetch so entities from different
// villages are never mixed, even transiently.
func (e *Engine) SetScope(ctx context.Context, villageID int, villageName string) {
	e.mu.Lock()
	scope := villageID
	e.scope = &scope
	e.villageName = villageName
	e.snap.Reports = nil
	e.snap.Announcements = nil
	e.snap.SOSRequests = nil
	e.snap.Status = nil
	e.mu.Unlock()
	e.Refresh(ctx)
}

// Scope returns the active village scope, nil outside supervisor use.
func (e *Engine) Scope() *int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.scope == nil {
		return nil
	}
	scope := *e.scope
	return &scope
}

// Refresh re-issues every fetch the active view requires. Each entity
// collection is fetched independently.
func (e *Engine) Refresh(ctx context.Context) {
	e.mu.Lock()
	e.gen++
	gen := e.gen
	v := e.activeView
	var scope *int
	if e.scope != nil {
		s := *e.scope
		scope = &s
	}
	villageName := e.villageName
	e.mu.Unlock()

	for _, collection := range e.collectionsFor(v) {
		switch collection {
		case CollectionReports:
			go e.fetchReports(ctx, gen, scope)
		case CollectionNotes:
			go e.fetchNotes(ctx, gen)
		case CollectionAnnouncements:
			go e.fetchAnnouncements(ctx, gen, scope)
		case CollectionSOS:
			go e.fetchSOS(ctx, gen, scope)
		case CollectionHazards:
			go e.fetchHazards(ctx, gen)
		case CollectionStatus:
			go e.fetchStatus(ctx, gen, scope)
			go e.fetchWeather(ctx, gen, villageName)
		}
	}
}

// collectionsFor maps the active view to the fetches it needs. Sections
// restricted to a role issue no fetch at all for other roles, whether
// or not the section is rendered.
func (e *Engine) collectionsFor(v view.View) []Collection {
	switch v {
	case view.ViewOverview:
		return []Collection{CollectionStatus}
	case view.ViewReports, view.ViewReport:
		return []Collection{CollectionReports}
	case view.ViewUrgent:
		return []Collection{CollectionSOS}
	case view.ViewAnnouncements:
		return []Collection{CollectionAnnouncements}
	case view.ViewManage:
		if e.role != models.RoleHead {
			return nil
		}
		return []Collection{CollectionStatus}
	case view.ViewNotes:
		if e.role != models.RoleHead {
			return nil
		}
		return []Collection{CollectionNotes}
	case view.ViewEMap:
		return []Collection{CollectionReports, CollectionSOS, CollectionHazards}
	}
	return nil
}

// apply runs a snapshot mutation if the fan-out that produced it is
// still current, and reports whether it was applied.
func (e *Engine) apply(gen uint64, fn func(*Snapshot)) bool {
	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		e.log.WithField("gen", gen).Debug("dropping stale response")
		return false
	}
	fn(&e.snap)
	onUpdate := e.onUpdate
	e.mu.Unlock()

	if onUpdate != nil {
		onUpdate()
	}
	return true
}

func (e *Engine) fetchReports(ctx context.Context, gen uint64, scope *int) {
	rows, err := e.api.Reports(ctx, scope)
	if err != nil {
		e.log.WithError(err).Warn("reports fetch failed")
		e.apply(gen, func(s *Snapshot) { s.Failed[CollectionReports] = err })
		return
	}
	reports := make([]models.Report, 0, len(rows))
	for _, row := range rows {
		reports = append(reports, row.Decode())
	}
	applied := e.apply(gen, func(s *Snapshot) {
		s.Reports = reports
		delete(s.Failed, CollectionReports)
	})
	if applied {
		e.updateReportCount()
	}
}

func (e *Engine) fetchNotes(ctx context.Context, gen uint64) {
	notes, err := e.api.Notes(ctx)
	if err != nil {
		e.log.WithError(err).Warn("notes fetch failed")
		e.apply(gen, func(s *Snapshot) { s.Failed[CollectionNotes] = err })
		return
	}
	e.apply(gen, func(s *Snapshot) {
		s.Notes = notes
		delete(s.Failed, CollectionNotes)
	})
}

func (e *Engine) fetchAnnouncements(ctx context.Context, gen uint64, scope *int) {
	announcements, err := e.api.Announcements(ctx, scope)
	if err != nil {
		e.log.WithError(err).Warn("announcements fetch failed")
		e.apply(gen, func(s *Snapshot) { s.Failed[CollectionAnnouncements] = err })
		return
	}
	e.apply(gen, func(s *Snapshot) {
		s.Announcements = announcements
		delete(s.Failed, CollectionAnnouncements)
	})
}

func (e *Engine) fetchSOS(ctx context.Context, gen uint64, scope *int) {
	requests, err := e.api.SOSRequests(ctx, scope)
	if err != nil {
		e.log.WithError(err).Warn("sos fetch failed")
		e.apply(gen, func(s *Snapshot) { s.Failed[CollectionSOS] = err })
		return
	}
	e.apply(gen, func(s *Snapshot) {
		s.SOSRequests = requests
		delete(s.Failed, CollectionSOS)
	})
}

func (e *Engine) fetchHazards(ctx context.Context, gen uint64) {
	zones, err := e.api.Polygons(ctx)
	if err != nil {
		e.log.WithError(err).Warn("polygons fetch failed")
		e.apply(gen, func(s *Snapshot) { s.Failed[CollectionHazards] = err })
		return
	}
	e.apply(gen, func(s *Snapshot) {
		s.HazardZones = zones
		delete(s.Failed, CollectionHazards)
	})
}

func (e *Engine) fetchStatus(ctx context.Context, gen uint64, scope *int) {
	vs, err := e.api.VillageStatus(ctx, scope)
	if err != nil {
		e.log.WithError(err).Warn("village status fetch failed")
		e.apply(gen, func(s *Snapshot) { s.Failed[CollectionStatus] = err })
		return
	}
	applied := e.apply(gen, func(s *Snapshot) {
		s.Status = vs
		delete(s.Failed, CollectionStatus)
	})
	if applied {
		e.board.Update(status.SlotEmergency, vs.EmergencyStatus)
		e.board.Update(status.SlotService, vs.ServiceStatus)
		e.updateReportCount()
	}
}

func (e *Engine) fetchWeather(ctx context.Context, gen uint64, villageName string) {
	text := status.WeatherText(ctx, e.weather, villageName)
	e.mu.Lock()
	stale := gen != e.gen
	e.mu.Unlock()
	if stale {
		return
	}
	e.board.Update(status.SlotWeather, text)
}

// updateReportCount renders the report count card. The server-supplied
// count wins whenever the status payload carries it; the length of the
// loaded collection is only the fallback.
func (e *Engine) updateReportCount() {
	e.mu.Lock()
	count := len(e.snap.Reports)
	if e.snap.Status != nil && e.snap.Status.TodaysReports != nil {
		count = *e.snap.Status.TodaysReports
	}
	e.mu.Unlock()
	e.board.UpdateCount(count)
}

// ResolveReport issues the resolve call and flips the local flag
// optimistically so the UI reflects the change before the next refresh.
// The flag only ever moves false to true.
func (e *Engine) ResolveReport(ctx context.Context, id int) error {
	if err := e.api.ResolveReport(ctx, id); err != nil {
		return err
	}
	e.mu.Lock()
	for i := range e.snap.Reports {
		if e.snap.Reports[i].ID == id {
			e.snap.Reports[i].Resolved = true
		}
	}
	onUpdate := e.onUpdate
	e.mu.Unlock()
	if onUpdate != nil {
		onUpdate()
	}
	return nil
}

// ResolveSOS is the same optimistic-flip pattern restricted to the
// status field. Resolving an already resolved request is a no-op; no
// call is made and nothing reverts.
func (e *Engine) ResolveSOS(ctx context.Context, id int) error {
	e.mu.Lock()
	for _, req := range e.snap.SOSRequests {
		if req.ID == id && !req.Active() {
			e.mu.Unlock()
			return nil
		}
	}
	e.mu.Unlock()

	if err := e.api.ResolveSOS(ctx, id); err != nil {
		return err
	}
	e.mu.Lock()
	for i := range e.snap.SOSRequests {
		if e.snap.SOSRequests[i].ID == id {
			e.snap.SOSRequests[i].Status = models.SOSStatusResolved
		}
	}
	onUpdate := e.onUpdate
	e.mu.Unlock()
	if onUpdate != nil {
		onUpdate()
	}
	return nil
}

// CleanupSOS asks the server to drop resolved requests, then re-fetches
// the collection.
func (e *Engine) CleanupSOS(ctx context.Context) error {
	if err := e.api.CleanupSOS(ctx); err != nil {
		return err
	}
	e.mu.Lock()
	gen := e.gen
	var scope *int
	if e.scope != nil {
		s := *e.scope
		scope = &s
	}
	e.mu.Unlock()
	e.fetchSOS(ctx, gen, scope)
	return nil
}
