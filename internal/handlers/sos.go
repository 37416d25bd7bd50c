package handlers

import (
	"net/http"
	"strconv"

	"village-ems/internal/models"
	"village-ems/internal/store"

	"github.com/gin-gonic/gin"
)

type SOSHandler struct {
	store *store.Store
}

func NewSOSHandler(st *store.Store) *SOSHandler {
	return &SOSHandler{store: st}
}

type SOSRequestBody struct {
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
}

func (h *SOSHandler) Create(c *gin.Context) {
	var req SOSRequestBody
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
	created := h.store.AddSOS(models.SOSRequest{
		UserID:    user.ID,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	c.JSON(http.StatusCreated, created)
}

func (h *SOSHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.SOSRequests(villageScope(c, h.store)))
}

func (h *SOSHandler) Resolve(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request id"})
		return
	}
	if err := h.store.ResolveSOS(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "SOS request not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "SOS resolved"})
}

// Cleanup removes resolved requests entirely.
func (h *SOSHandler) Cleanup(c *gin.Context) {
	removed := h.store.CleanupSOS()
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
