package handlers

import (
	"net/http"

	"village-ems/internal/models"
	"village-ems/internal/store"

	"github.com/gin-gonic/gin"
)

type AnnouncementHandler struct {
	store *store.Store
}

func NewAnnouncementHandler(st *store.Store) *AnnouncementHandler {
	return &AnnouncementHandler{store: st}
}

type SubmitAnnouncementRequest struct {
	Title     string `json:"title" binding:"required"`
	Content   string `json:"content" binding:"required"`
	VillageID *int   `json:"village_id"`
}

func (h *AnnouncementHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Announcements(villageScope(c, h.store)))
}

func (h *AnnouncementHandler) Submit(c *gin.Context) {
	var req SubmitAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}
	created := h.store.AddAnnouncement(models.Announcement{
		Title:     req.Title,
		Content:   req.Content,
		VillageID: req.VillageID,
	})
	c.JSON(http.StatusCreated, created)
}
