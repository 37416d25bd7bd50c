package view

import (
	"strings"
	"sync"

	"village-ems/internal/models"
)

// Screen is one of the client's top-level routes.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenRegister
	ScreenHome
	ScreenDashboard
	ScreenSupervisor
)

func (s Screen) String() string {
	switch s {
	case ScreenLogin:
		return "login"
	case ScreenRegister:
		return "register"
	case ScreenHome:
		return "home"
	case ScreenDashboard:
		return "dashboard"
	case ScreenSupervisor:
		return "supervisor"
	}
	return "unknown"
}

// ScreenFor maps a role to the screen it belongs on. Anything outside
// the known privileged roles lands on the villager home.
func ScreenFor(role models.Role) Screen {
	switch role {
	case models.RoleHead:
		return ScreenDashboard
	case models.RoleSuper:
		return ScreenSupervisor
	}
	return ScreenHome
}

// View is a fragment-addressed section within a screen.
type View string

const (
	ViewOverview      View = "overview"
	ViewReports       View = "reports"
	ViewUrgent        View = "urgent"
	ViewAnnouncements View = "announcements"
	ViewManage        View = "manage"
	ViewStats         View = "stats"
	ViewNotes         View = "notes"
	ViewReport        View = "report"
	ViewEMap          View = "emap"

	// ViewBlank is the defined terminal for unrecognized fragments:
	// nothing renders, no error is raised.
	ViewBlank View = ""
)

// screenViews is the closed set of fragments each screen accepts.
var screenViews = map[Screen][]View{
	ScreenHome:       {ViewOverview, ViewReport, ViewEMap},
	ScreenDashboard:  {ViewOverview, ViewReports, ViewManage, ViewStats, ViewNotes},
	ScreenSupervisor: {ViewOverview, ViewReports, ViewUrgent, ViewAnnouncements},
}

// Views returns the fragments valid on the given screen.
func Views(s Screen) []View {
	return screenViews[s]
}

// Router derives the active view from the address fragment. It is
// memoryless: every fragment-change event sets the state synchronously,
// no transition is rejected based on prior state.
type Router struct {
	mu       sync.Mutex
	screen   Screen
	current  View
	onChange func(View)
}

// NewRouter mounts a router for a screen with the fragment present at
// mount time. An absent or empty fragment selects the overview default.
func NewRouter(screen Screen, fragment string) *Router {
	r := &Router{screen: screen}
	r.current = r.resolve(fragment)
	return r
}

// OnChange registers the single change listener. The callback runs
// synchronously within Navigate.
func (r *Router) OnChange(fn func(View)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

// Current returns the active view.
func (r *Router) Current() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Navigate handles a fragment-change event.
func (r *Router) Navigate(fragment string) View {
	r.mu.Lock()
	next := r.resolve(fragment)
	r.current = next
	fn := r.onChange
	r.mu.Unlock()

	if fn != nil {
		fn(next)
	}
	return next
}

func (r *Router) resolve(fragment string) View {
	fragment = strings.TrimPrefix(fragment, "#")
	if fragment == "" {
		return ViewOverview
	}
	candidate := View(fragment)
	for _, v := range screenViews[r.screen] {
		if v == candidate {
			return candidate
		}
	}
	return ViewBlank
}
