package handlers

import (
	"net/http"

	"village-ems/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type VillageHandler struct {
	store *store.Store
	log   *logrus.Entry
}

func NewVillageHandler(st *store.Store, log *logrus.Entry) *VillageHandler {
	return &VillageHandler{store: st, log: log}
}

func (h *VillageHandler) Villages(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Villages())
}

// AdminOnly is the privileged-role verification probe. Reaching it at
// all requires the role middleware to pass, so the body is trivial.
func (h *VillageHandler) AdminOnly(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *VillageHandler) Status(c *gin.Context) {
	scope := villageScope(c, h.store)
	vs, err := h.store.Status(scope)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Village not found"})
		return
	}
	count := h.store.TodaysReportCount(scope)
	vs.TodaysReports = &count
	c.JSON(http.StatusOK, vs)
}

type UpdateStatusRequest struct {
	VillageID       *int   `json:"village_id"`
	EmergencyStatus string `json:"emergency_status" binding:"required"`
	ServiceStatus   string `json:"service_status" binding:"required"`
}

func (h *VillageHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	villageID := 0
	if req.VillageID != nil {
		villageID = *req.VillageID
	} else {
		user, ok := requestUser(c, h.store)
		if ok && user.VillageID != nil {
			villageID = *user.VillageID
		}
	}

	if err := h.store.UpdateStatus(villageID, req.EmergencyStatus, req.ServiceStatus); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Village not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}

type BroadcastRequest struct {
	Message string `json:"message" binding:"required"`
}

// Broadcast forwards a status message to the external messaging
// channel. The stub only logs it.
func (h *VillageHandler) Broadcast(c *gin.Context) {
	var req BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}
	h.log.WithField("message", req.Message).Info("broadcast requested")
	c.JSON(http.StatusOK, gin.H{"message": "Broadcast queued"})
}
