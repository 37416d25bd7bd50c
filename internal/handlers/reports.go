package handlers

import (
	"net/http"
	"strconv"

	"village-ems/internal/store"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	store *store.Store
}

func NewReportHandler(st *store.Store) *ReportHandler {
	return &ReportHandler{store: st}
}

type CreateReportRequest struct {
	Content   string   `json:"content" binding:"required"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (h *ReportHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Reports(villageScope(c, h.store)))
}

func (h *ReportHandler) Create(c *gin.Context) {
	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	user, ok := requestUser(c, h.store)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}
	villageID := 0
	if user.VillageID != nil {
		villageID = *user.VillageID
	}

	rec := h.store.AddReport(store.ReportRecord{
		VillageID: villageID,
		Content:   req.Content,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	c.JSON(http.StatusCreated, rec.Row())
}

// Delete implements resolve-by-delete: resolving a report removes it.
func (h *ReportHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report id"})
		return
	}
	if err := h.store.DeleteReport(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Report resolved"})
}
