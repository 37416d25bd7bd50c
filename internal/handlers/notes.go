package handlers

import (
	"encoding/json"
	"net/http"

	"village-ems/internal/models"
	"village-ems/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type NoteHandler struct {
	store *store.Store
}

func NewNoteHandler(st *store.Store) *NoteHandler {
	return &NoteHandler{store: st}
}

func (h *NoteHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Notes())
}

// Submit accepts a multipart form: a "content" field holding a JSON
// string plus up to three files under "files".
func (h *NoteHandler) Submit(c *gin.Context) {
	content := c.PostForm("content")
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}

	var payload struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		// Older clients sent plain text.
		payload.Title = "Note"
		payload.Content = content
	}

	form, err := c.MultipartForm()
	var attachments []string
	if err == nil && form != nil {
		files := form.File["files"]
		if len(files) > models.MaxNoteAttachments {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "too many files",
			})
			return
		}
		for _, f := range files {
			// Stored under a collision-free name; the original name is
			// kept for display.
			attachments = append(attachments, uuid.NewString()+"_"+f.Filename)
		}
	}

	note := h.store.AddNote(models.Note{
		Title:       payload.Title,
		Content:     payload.Content,
		Attachments: attachments,
	})
	c.JSON(http.StatusCreated, note)
}
