package submit

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"village-ems/internal/api"
	"village-ems/internal/geo"
	"village-ems/internal/models"
	"village-ems/internal/notify"
	"village-ems/internal/status"
	syncengine "village-ems/internal/sync"
	"village-ems/internal/view"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

type harness struct {
	controller *Controller
	queue      *notify.Queue
	requests   atomic.Int64
}

// newHarness builds a controller against a stub server that counts every
// request and delegates to the given handler.
func newHarness(t *testing.T, handler http.HandlerFunc) *harness {
	t.Helper()
	h := &harness{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.requests.Add(1)
		if handler != nil {
			handler(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	client := api.New(srv.URL, 2*time.Second, func() string { return "tok" }, testLogger())
	sess := &models.Session{Token: "tok", User: models.User{ID: 1, Role: models.RoleHead}}
	engine := syncengine.NewEngine(client, stubLookup{}, status.NewBoard(), sess, view.ScreenDashboard, testLogger())
	h.queue = notify.NewQueue(time.Minute)
	t.Cleanup(h.queue.Close)
	h.controller = NewController(client, engine, h.queue, testLogger())
	return h
}

type stubLookup struct{}

func (stubLookup) Lookup(ctx context.Context, place string) (string, error) {
	return "", errors.New("not under test")
}

func currentMessage(t *testing.T, q *notify.Queue, want string) {
	t.Helper()
	require.Eventually(t, func() bool {
		n := q.Current()
		return n != nil && n.Message == want
	}, time.Second, 5*time.Millisecond)
}

func uploads(n int) []api.Upload {
	files := make([]api.Upload, 0, n)
	for i := 0; i < n; i++ {
		files = append(files, api.Upload{Name: "photo.jpg", Reader: strings.NewReader("jpeg")})
	}
	return files
}

func TestAttachFilesEnforcesLimit(t *testing.T) {
	h := newHarness(t, nil)

	attached, err := h.controller.AttachFiles(nil, uploads(3))
	require.NoError(t, err)
	assert.Len(t, attached, 3)

	// A fourth file rejects the whole selection, keeps the three, and
	// never touches the network.
	result, err := h.controller.AttachFiles(attached, uploads(1))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "files", verr.Field)
	assert.Len(t, result, 3)
	assert.Zero(t, h.requests.Load())
}

func TestSubmitReportValidatesBeforeNetwork(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	err := h.controller.SubmitReport(ctx, ReportForm{Description: "no title"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)

	err = h.controller.SubmitReport(ctx, ReportForm{Title: "no description"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "description", verr.Field)

	assert.Zero(t, h.requests.Load(), "validation failures must not reach the server")
}

func TestSubmitReportEncodesContent(t *testing.T) {
	var payload map[string]interface{}
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/reports" && r.Method == http.MethodPost {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		}
		w.WriteHeader(http.StatusOK)
	})

	form := ReportForm{
		Title:       "Fallen tree",
		Description: "Blocking the main road",
		Location:    &geo.Coordinate{Lat: 3.14, Lon: 101.69},
	}
	require.NoError(t, h.controller.SubmitReport(context.Background(), form))

	content := models.DecodeReportContent(payload["content"].(string))
	assert.Equal(t, "Fallen tree", content.Title)
	assert.Equal(t, models.ReportCategoryGeneral, content.Category, "empty category defaults to General")
	assert.Equal(t, 3.14, payload["latitude"])
	assert.Equal(t, 101.69, payload["longitude"])

	currentMessage(t, h.queue, "Report submitted")
}

func TestSubmitReportServerFailureNotifies(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := h.controller.SubmitReport(context.Background(), ReportForm{Title: "t", Description: "d"})
	require.Error(t, err)
	currentMessage(t, h.queue, "Failed to submit report")
}

func TestSubmitNoteRejectsTooManyFiles(t *testing.T) {
	h := newHarness(t, nil)

	err := h.controller.SubmitNote(context.Background(), NoteForm{
		Title:   "Meeting notes",
		Content: "body",
		Files:   uploads(4),
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "files", verr.Field)
	assert.Zero(t, h.requests.Load())
}

func TestSubmitNotePostsMultipart(t *testing.T) {
	var contentField string
	var fileCount int
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/submit_note" {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			contentField = r.FormValue("content")
			fileCount = len(r.MultipartForm.File["files"])
		}
		w.WriteHeader(http.StatusOK)
	})

	err := h.controller.SubmitNote(context.Background(), NoteForm{
		Title:   "Gotong-royong",
		Content: "Saturday 8am at the community hall",
		Files:   uploads(2),
	})
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(contentField), &decoded))
	assert.Equal(t, "Gotong-royong", decoded["title"])
	assert.Equal(t, 2, fileCount)
	currentMessage(t, h.queue, "Note saved")
}

func TestSaveHazardZoneRestoresDraftOnFailure(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	draft := geo.NewDraft()
	draft.SetGeometry([][]float64{{101.7, 3.1}, {101.8, 3.2}})
	draft.SetCategory(models.HazardDanger)

	err := h.controller.SaveHazardZone(context.Background(), draft)
	require.Error(t, err)

	// The drawing survives the failed save.
	geometry, category := draft.Pending()
	assert.Len(t, geometry, 2)
	assert.Equal(t, models.HazardDanger, category)
	currentMessage(t, h.queue, "Failed to save hazard zone")
}

func TestSaveHazardZoneEmptyDraft(t *testing.T) {
	h := newHarness(t, nil)

	err := h.controller.SaveHazardZone(context.Background(), geo.NewDraft())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Zero(t, h.requests.Load())
}

type promptFunc func(message string) bool

func (f promptFunc) ConfirmBroadcast(message string) bool { return f(message) }

func TestUpdateStatusBroadcastSubFlow(t *testing.T) {
	var broadcasts atomic.Int64
	handler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broadcast_whatsapp" {
			broadcasts.Add(1)
		}
		w.WriteHeader(http.StatusOK)
	}

	// Declining keeps the update and skips the broadcast.
	h := newHarness(t, handler)
	err := h.controller.UpdateStatus(context.Background(), models.EmergencyCritical, models.ServiceDown, nil,
		promptFunc(func(string) bool { return false }))
	require.NoError(t, err)
	assert.Zero(t, broadcasts.Load())
	currentMessage(t, h.queue, "Status updated")

	// Accepting sends the composed message.
	var seen string
	h2 := newHarness(t, handler)
	err = h2.controller.UpdateStatus(context.Background(), models.EmergencyNormal, models.ServiceOperational, nil,
		promptFunc(func(message string) bool {
			seen = message
			return true
		}))
	require.NoError(t, err)
	assert.Equal(t, int64(1), broadcasts.Load())
	assert.Contains(t, seen, models.EmergencyNormal)
	currentMessage(t, h2.queue, "Broadcast sent")
}

func TestStatusFormSeedsFromCards(t *testing.T) {
	board := status.NewBoard()
	board.Update(status.SlotEmergency, models.EmergencyHighAlert)
	board.Update(status.SlotService, models.ServiceMaintenance)

	form := StatusFormFrom(board)
	assert.Equal(t, models.EmergencyHighAlert, form.Emergency)
	assert.Equal(t, models.ServiceMaintenance, form.Service)
}

func TestUpdateStatusValidation(t *testing.T) {
	h := newHarness(t, nil)

	err := h.controller.UpdateStatus(context.Background(), "", models.ServiceOperational, nil, nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "emergency_status", verr.Field)
	assert.Zero(t, h.requests.Load())
}
