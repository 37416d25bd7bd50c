package submit

import (
	"context"
	"encoding/json"
	"fmt"

	"village-ems/internal/api"
	"village-ems/internal/geo"
	"village-ems/internal/models"
	"village-ems/internal/notify"
	"village-ems/internal/status"
	syncengine "village-ems/internal/sync"

	"github.com/sirupsen/logrus"
)

// ValidationError blocks a submission before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Prompter asks the operator whether to broadcast a status change
// externally after a successful update.
type Prompter interface {
	ConfirmBroadcast(message string) bool
}

// Controller builds and posts create/update payloads, validating
// client-side first and triggering a data refresh on success.
type Controller struct {
	api    *api.Client
	engine *syncengine.Engine
	notify *notify.Queue
	log    *logrus.Entry
}

func NewController(client *api.Client, engine *syncengine.Engine, queue *notify.Queue, log *logrus.Entry) *Controller {
	return &Controller{api: client, engine: engine, notify: queue, log: log}
}

// AttachFiles adds a new file selection to the existing attachments.
// A selection that would push the total past the limit is discarded
// whole, with a notification; the files already attached stay.
func (c *Controller) AttachFiles(existing, selection []api.Upload) ([]api.Upload, error) {
	if len(existing)+len(selection) > models.MaxNoteAttachments {
		c.notify.Error(fmt.Sprintf("Too many files: at most %d attachments", models.MaxNoteAttachments))
		return existing, &ValidationError{Field: "files", Reason: "too many files"}
	}
	return append(existing, selection...), nil
}

type ReportForm struct {
	Title       string
	Category    string
	Description string
	Location    *geo.Coordinate
}

func (c *Controller) SubmitReport(ctx context.Context, form ReportForm) error {
	if form.Title == "" {
		return c.rejected("title", "required")
	}
	if form.Description == "" {
		return c.rejected("description", "required")
	}
	if form.Category == "" {
		form.Category = models.ReportCategoryGeneral
	}

	var lat, lon *float64
	if form.Location != nil {
		lat, lon = &form.Location.Lat, &form.Location.Lon
	}
	content := models.ReportContent{
		Title:       form.Title,
		Category:    form.Category,
		Description: form.Description,
	}
	if err := c.api.SubmitReport(ctx, content, lat, lon); err != nil {
		c.notify.Error("Failed to submit report")
		return err
	}
	c.notify.Success("Report submitted")
	c.engine.Refresh(ctx)
	return nil
}

type NoteForm struct {
	Title   string
	Content string
	Files   []api.Upload
}

func (c *Controller) SubmitNote(ctx context.Context, form NoteForm) error {
	if form.Title == "" {
		return c.rejected("title", "required")
	}
	if form.Content == "" {
		return c.rejected("content", "required")
	}
	if len(form.Files) > models.MaxNoteAttachments {
		return c.rejected("files", "too many files")
	}

	content, err := json.Marshal(map[string]string{
		"title":   form.Title,
		"content": form.Content,
	})
	if err != nil {
		return fmt.Errorf("encode note content: %w", err)
	}
	if err := c.api.SubmitNote(ctx, string(content), form.Files); err != nil {
		c.notify.Error("Failed to save note")
		return err
	}
	c.notify.Success("Note saved")
	c.engine.Refresh(ctx)
	return nil
}

func (c *Controller) SubmitAnnouncement(ctx context.Context, title, content string, villageID *int) error {
	if title == "" {
		return c.rejected("title", "required")
	}
	if content == "" {
		return c.rejected("content", "required")
	}
	if err := c.api.SubmitAnnouncement(ctx, title, content, villageID); err != nil {
		c.notify.Error("Failed to post announcement")
		return err
	}
	c.notify.Success("Announcement posted")
	c.engine.Refresh(ctx)
	return nil
}

// SendSOS fires a one-shot location-tagged distress signal.
func (c *Controller) SendSOS(ctx context.Context, coord geo.Coordinate) error {
	if err := c.api.SendSOS(ctx, coord.Lat, coord.Lon); err != nil {
		c.notify.Error("Failed to send SOS")
		return err
	}
	c.notify.Success("SOS sent")
	return nil
}

// SaveHazardZone posts the pending polygon draft. Until this succeeds
// nothing is persisted; a draft without geometry is a validation error.
func (c *Controller) SaveHazardZone(ctx context.Context, draft *geo.Draft) error {
	geometry, category, err := draft.Take()
	if err != nil {
		return c.rejected("geometry", "draw a polygon first")
	}
	if err := c.api.SavePolygon(ctx, category, geometry); err != nil {
		// Put the draft back so the drawing is not lost on a network
		// failure.
		draft.SetGeometry(geometry)
		draft.SetCategory(category)
		c.notify.Error("Failed to save hazard zone")
		return err
	}
	c.notify.Success("Hazard zone saved")
	c.engine.Refresh(ctx)
	return nil
}

// StatusForm holds the manage view's pending level edits. It is seeded
// from the cards currently shown; nothing applies until an explicit
// update posts it.
type StatusForm struct {
	Emergency string
	Service   string
}

// StatusFormFrom seeds the form from the current card texts.
func StatusFormFrom(board *status.Board) StatusForm {
	return StatusForm{
		Emergency: board.Get(status.SlotEmergency),
		Service:   board.Get(status.SlotService),
	}
}

// UpdateStatus posts new emergency/service levels, then offers the
// optional broadcast sub-flow: declining is a no-op, accepting sends
// the message and reports the outcome through the notification queue.
func (c *Controller) UpdateStatus(ctx context.Context, emergency, service string, villageID *int, prompter Prompter) error {
	if emergency == "" {
		return c.rejected("emergency_status", "required")
	}
	if service == "" {
		return c.rejected("service_status", "required")
	}

	update := api.StatusUpdate{
		VillageID:       villageID,
		EmergencyStatus: emergency,
		ServiceStatus:   service,
	}
	if err := c.api.UpdateVillageStatus(ctx, update); err != nil {
		c.notify.Error("Failed to update status")
		return err
	}
	c.notify.Success("Status updated")
	c.engine.Refresh(ctx)

	if prompter != nil {
		message := fmt.Sprintf("Village status update: emergency %s, services %s", emergency, service)
		if prompter.ConfirmBroadcast(message) {
			if err := c.api.BroadcastWhatsApp(ctx, message); err != nil {
				c.notify.Error("Broadcast failed")
				c.log.WithError(err).Warn("status broadcast failed")
			} else {
				c.notify.Success("Broadcast sent")
			}
		}
	}
	return nil
}

func (c *Controller) rejected(field, reason string) error {
	err := &ValidationError{Field: field, Reason: reason}
	c.notify.Error("Invalid " + field)
	return err
}
