package handlers

import (
	"net/http"

	"village-ems/internal/models"
	"village-ems/internal/store"
	"village-ems/pkg/auth"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	store      *store.Store
	jwtManager *auth.JWTManager
}

type RegisterRequest struct {
	Name      string `json:"name" binding:"required,min=2,max=100"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6,max=100"`
	VillageID *int   `json:"village_id"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func NewAuthHandler(st *store.Store, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{store: st, jwtManager: jwtManager}
}

// Register handles account creation. New accounts are villagers; head
// and supervisor roles are provisioned out of band.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error hashing password",
		})
		return
	}

	villageName := ""
	if req.VillageID != nil {
		for _, v := range h.store.Villages() {
			if v.ID == *req.VillageID {
				villageName = v.Name
			}
		}
	}

	user, err := h.store.CreateUser(models.User{
		Name:        req.Name,
		Email:       req.Email,
		Role:        models.RoleVillager,
		VillageID:   req.VillageID,
		VillageName: villageName,
	}, string(hashedPassword))
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": "User with this email already exists",
		})
		return
	}

	token, err := h.jwtManager.GenerateToken(user.ID, user.Email, user.Role.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error generating token",
		})
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{Token: token, User: &user})
}

// Login handles authentication.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	user, passwordHash, err := h.store.UserByEmail(req.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid credentials",
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid credentials",
		})
		return
	}

	token, err := h.jwtManager.GenerateToken(user.ID, user.Email, user.Role.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error generating token",
		})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: &user})
}

// Logout revokes the presented token.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, exists := c.Get("token")
	if exists {
		h.store.RevokeToken(token.(string))
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out",
	})
}
