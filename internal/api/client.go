package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"village-ems/internal/models"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// TokenSource supplies the current bearer token, or "" when there is no
// authenticated session. The session store owns the token; the client
// only reads it per request.
type TokenSource func() string

// Client is the gateway to the backend REST service. Every call returns
// an explicit error; nothing here retries automatically.
type Client struct {
	rc    *resty.Client
	token TokenSource
	log   *logrus.Entry
}

func New(baseURL string, timeout time.Duration, token TokenSource, log *logrus.Entry) *Client {
	c := &Client{
		rc:    resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
		token: token,
		log:   log,
	}
	c.rc.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if tok := c.token(); tok != "" {
			req.SetHeader("Authorization", "Bearer "+tok)
		}
		return nil
	})
	return c
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	VillageID *int   `json:"village_id,omitempty"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.Session, error) {
	var session models.Session
	resp, err := c.rc.R().SetContext(ctx).
		SetBody(LoginRequest{Email: email, Password: password}).
		SetResult(&session).
		Post("/login")
	if err := checked(status(resp), body(resp), err); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*models.Session, error) {
	var session models.Session
	resp, err := c.rc.R().SetContext(ctx).
		SetBody(req).
		SetResult(&session).
		Post("/register")
	if err := checked(status(resp), body(resp), err); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.rc.R().SetContext(ctx).Delete("/logout")
	return checked(status(resp), body(resp), err)
}

func (c *Client) Villages(ctx context.Context) ([]models.Village, error) {
	var villages []models.Village
	resp, err := c.rc.R().SetContext(ctx).SetResult(&villages).Get("/villages")
	if err := checked(status(resp), body(resp), err); err != nil {
		return nil, err
	}
	return villages, nil
}

// VerifyPrivilege probes the privileged endpoint. Any non-2xx reply
// means the claimed role is not honored by the server.
func (c *Client) VerifyPrivilege(ctx context.Context) error {
	resp, err := c.rc.R().SetContext(ctx).Get("/admin_only")
	return checked(status(resp), body(resp), err)
}

func (c *Client) Reports(ctx context.Context, villageID *int) ([]models.ReportRow, error) {
	var rows []models.ReportRow
	resp, err := withVillage(c.rc.R().SetContext(ctx), villageID).
		SetResult(&rows).
		Get("/reports")
	if err := checked(status(resp), body(resp), err); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) SubmitReport(ctx context.Context, content models.ReportContent, lat, lon *float64) error {
	encoded, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("encode report content: %w", err)
	}
	payload := map[string]interface{}{"content": string(encoded)}
	if lat != nil && lon != nil {
		payload["latitude"] = *lat
		payload["longitude"] = *lon
	}
	resp, err := c.rc.R().SetContext(ctx).SetBody(payload).Post("/reports")
	return checked(status(resp), body(resp), err)
}

// ResolveReport resolves by deletion; the backend removes the row.
func (c *Client) ResolveReport(ctx context.Context, id int) error {
	resp, err := c.rc.R().SetContext(ctx).Delete("/reports/" + strconv.Itoa(id))
	return checked(status(resp), body(resp), err)
}

func (c *Client) Notes(ctx context.Context) ([]models.Note, error) {
	var notes []models.Note
	resp, err := c.rc.R().SetContext(ctx).SetResult(&notes).Get("/notes")
	if err := checked(status(resp), body(resp), err); err != nil {
		return nil, err
	}
	return notes, nil
}

// Upload is a file attached to a multipart submission.
type Upload struct {
	Name   string
	Reader io.Reader
}

// SubmitNote posts the note content as a JSON string field alongside up
// to three attached files.
func (c *Client) SubmitNote(ctx context.Context, content string, files []Upload) error {
	req := c.rc.R().SetContext(ctx).SetFormData(map[string]string{"content": content})
	for _, f := range files {
		req.SetMultipartField("files", f.Name, "application/octet-stream", f.Reader)
	}
	resp, err := req.Post("/submit_note")
	return checked(status(resp), body(resp), err)
}

func (c *Client) Announcements(ctx context.Context, villageID *int) ([]models.Announcement, error) {
	var announcements []models.Announcement
	resp, err := withVillage(c.rc.R().SetContext(ctx), villageID).
		SetResult(&announcements).
		Get("/announcements")
	if err := checked(status(resp), body(resp), err); err != nil {
		return nil, err
	}
	return announcements, nil
}

func (c *Client) SubmitAnnouncement(ctx context.Context, title, content string, villageID *int) error {
	resp, err := c.rc.R().SetContext(ctx).SetBody(map[string]interface{}{
		"title":      title,
		"content":    content,
		"village_id": villageID,
	}).Post("/submit_announcement")
	return checked(status(resp), body(resp), err)
}

func (c *Client) SendSOS(ctx context.Context, lat, lon float64) error {
	resp, err := c.rc.R().SetContext(ctx).SetBody(map[string]float64{
		"latitude":  lat,
		"longitude": lon,
	}).Post("/sos")
	return checked(status(resp), body(resp), err)
}

func (c *Client) SOSRequests(ctx context.Context, villageID *int) ([]models.SOSRequest, error) {
	var requests []models.SOSRequest
	resp, err := withVillage(c.rc.R().SetContext(ctx), villageID).
		SetResult(&requests).
		Get("/sos_requests")
	if err := checked(status(resp), body(resp), err); err != nil {
		return nil, err
	}
	return requests, nil
}

func (c *Client) ResolveSOS(ctx context.Context, id int) error {
	resp, err := c.rc.R().SetContext(ctx).Put("/sos_requests/" + strconv.Itoa(id) + "/resolve")
	return checked(status(resp), body(resp), err)
}

// CleanupSOS removes resolved requests server-side.
func (c *Client) CleanupSOS(ctx context.Context) error {
	resp, err := c.rc.R().SetContext(ctx).Delete("/sos_requests/cleanup")
	return checked(status(resp), body(resp), err)
}

func (c *Client) VillageStatus(ctx context.Context, villageID *int) (*models.VillageStatus, error) {
	var vs models.VillageStatus
	resp, err := withVillage(c.rc.R().SetContext(ctx), villageID).
		SetResult(&vs).
		Get("/village_status")
	if err := checked(status(resp), body(resp), err); err != nil {
		return nil, err
	}
	return &vs, nil
}

type StatusUpdate struct {
	VillageID       *int   `json:"village_id,omitempty"`
	EmergencyStatus string `json:"emergency_status"`
	ServiceStatus   string `json:"service_status"`
}

func (c *Client) UpdateVillageStatus(ctx context.Context, update StatusUpdate) error {
	resp, err := c.rc.R().SetContext(ctx).SetBody(update).Post("/update_village_status")
	return checked(status(resp), body(resp), err)
}

func (c *Client) Polygons(ctx context.Context) ([]models.HazardZone, error) {
	var zones []models.HazardZone
	resp, err := c.rc.R().SetContext(ctx).SetResult(&zones).Get("/polygons")
	if err := checked(status(resp), body(resp), err); err != nil {
		return nil, err
	}
	return zones, nil
}

func (c *Client) SavePolygon(ctx context.Context, category models.HazardCategory, geometry [][]float64) error {
	resp, err := c.rc.R().SetContext(ctx).SetBody(map[string]interface{}{
		"category": category,
		"geometry": geometry,
	}).Post("/polygons")
	return checked(status(resp), body(resp), err)
}

func (c *Client) DeletePolygon(ctx context.Context, id int) error {
	resp, err := c.rc.R().SetContext(ctx).Delete("/polygons/" + strconv.Itoa(id))
	return checked(status(resp), body(resp), err)
}

func (c *Client) BroadcastWhatsApp(ctx context.Context, message string) error {
	resp, err := c.rc.R().SetContext(ctx).SetBody(map[string]string{
		"message": message,
	}).Post("/broadcast_whatsapp")
	return checked(status(resp), body(resp), err)
}

func withVillage(req *resty.Request, villageID *int) *resty.Request {
	if villageID != nil {
		req.SetQueryParam("village_id", strconv.Itoa(*villageID))
	}
	return req
}

func status(resp *resty.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode()
}

func body(resp *resty.Response) string {
	if resp == nil {
		return ""
	}
	return resp.String()
}
