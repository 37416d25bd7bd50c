package handlers

import (
	"strconv"

	"village-ems/internal/models"
	"village-ems/internal/store"

	"github.com/gin-gonic/gin"
)

// requestUser loads the user behind the validated token.
func requestUser(c *gin.Context, st *store.Store) (models.User, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return models.User{}, false
	}
	user, err := st.UserByID(userID.(int))
	if err != nil {
		return models.User{}, false
	}
	return user, true
}

// villageScope resolves the village a request operates on: supervisors
// pass ?village_id=, everyone else is pinned to their own village.
// Zero means unscoped.
func villageScope(c *gin.Context, st *store.Store) int {
	user, ok := requestUser(c, st)
	if !ok {
		return 0
	}
	if user.Role == models.RoleSuper {
		if raw := c.Query("village_id"); raw != "" {
			if id, err := strconv.Atoi(raw); err == nil {
				return id
			}
		}
		return 0
	}
	if user.VillageID != nil {
		return *user.VillageID
	}
	return 0
}
