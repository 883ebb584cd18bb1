package dashboard

import (
	"log/slog"
	"net/http"

	"learning-app/internal/app/http/middleware"
	"learning-app/internal/domain/dashboard"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	DB  *gorm.DB
	Log *slog.Logger
}

// GET /dashboardhandler/data
func (h *Handler) Data(c *gin.Context) {
	u := middleware.CurrentUser(c)

	entries, err := dashboard.ForUser(c.Request.Context(), h.DB, u.ID)
	if err != nil {
		h.Log.Error("load dashboard", "user_id", u.ID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"explorations": entries})
}
