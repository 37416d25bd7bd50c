package handlers

import (
	"net/http"
	"strconv"

	"village-ems/internal/models"
	"village-ems/internal/store"

	"github.com/gin-gonic/gin"
)

type PolygonHandler struct {
	store *store.Store
}

func NewPolygonHandler(st *store.Store) *PolygonHandler {
	return &PolygonHandler{store: st}
}

type SavePolygonRequest struct {
	Category models.HazardCategory `json:"category" binding:"required"`
	Geometry [][]float64           `json:"geometry" binding:"required"`
}

func (h *PolygonHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Polygons())
}

func (h *PolygonHandler) Save(c *gin.Context) {
	var req SavePolygonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}
	if !req.Category.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown hazard category"})
		return
	}
	created := h.store.AddPolygon(models.HazardZone{
		Category: req.Category,
		Geometry: req.Geometry,
	})
	c.JSON(http.StatusCreated, created)
}

func (h *PolygonHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid polygon id"})
		return
	}
	if err := h.store.DeletePolygon(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Polygon not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Polygon removed"})
}
