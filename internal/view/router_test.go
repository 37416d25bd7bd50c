package view

import (
	"testing"

	"village-ems/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestScreenFor(t *testing.T) {
	tests := []struct {
		role models.Role
		want Screen
	}{
		{models.RoleHead, ScreenDashboard},
		{models.RoleSuper, ScreenSupervisor},
		{models.RoleVillager, ScreenHome},
		{models.Role("something-else"), ScreenHome},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ScreenFor(tt.role), "role %q", tt.role)
	}
}

func TestRouterDefaultsToOverview(t *testing.T) {
	assert.Equal(t, ViewOverview, NewRouter(ScreenDashboard, "").Current())
	assert.Equal(t, ViewOverview, NewRouter(ScreenDashboard, "#").Current())
	assert.Equal(t, ViewReports, NewRouter(ScreenDashboard, "#reports").Current())
}

func TestRouterUnknownFragmentIsBlank(t *testing.T) {
	r := NewRouter(ScreenDashboard, "#nope")
	assert.Equal(t, ViewBlank, r.Current())

	// Fragments valid on other screens are still unknown here.
	assert.Equal(t, ViewBlank, NewRouter(ScreenDashboard, "#urgent").Current())
	assert.Equal(t, ViewBlank, NewRouter(ScreenHome, "#manage").Current())
}

func TestRouterNavigateIsSynchronousAndMemoryless(t *testing.T) {
	r := NewRouter(ScreenSupervisor, "#overview")

	var seen []View
	r.OnChange(func(v View) { seen = append(seen, v) })

	assert.Equal(t, ViewReports, r.Navigate("#reports"))
	assert.Equal(t, ViewReports, r.Current())

	// No transition is rejected based on prior state.
	assert.Equal(t, ViewBlank, r.Navigate("#garbage"))
	assert.Equal(t, ViewUrgent, r.Navigate("#urgent"))
	assert.Equal(t, ViewOverview, r.Navigate(""))

	assert.Equal(t, []View{ViewReports, ViewBlank, ViewUrgent, ViewOverview}, seen)
}

func TestScreenViewSets(t *testing.T) {
	assert.ElementsMatch(t,
		[]View{ViewOverview, ViewReport, ViewEMap},
		Views(ScreenHome))
	assert.ElementsMatch(t,
		[]View{ViewOverview, ViewReports, ViewManage, ViewStats, ViewNotes},
		Views(ScreenDashboard))
	assert.ElementsMatch(t,
		[]View{ViewOverview, ViewReports, ViewUrgent, ViewAnnouncements},
		Views(ScreenSupervisor))
}
