package home

import (
	"log/slog"
	"net/http"

	"learning-app/internal/app/http/middleware"
	"learning-app/internal/domain/dashboard"
	"learning-app/internal/web/pages"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	DB       *gorm.DB
	Log      *slog.Logger
	SiteName string
}

// GET /
// Anonymous visitors and readers get the splash page; registered editors get
// their dashboard.
func (h *Handler) Index(c *gin.Context) {
	u := middleware.CurrentUser(c)

	var entries map[string]dashboard.Entry
	if u != nil && u.IsEditor() {
		var err error
		entries, err = dashboard.ForUser(c.Request.Context(), h.DB, u.ID)
		if err != nil {
			h.Log.Error("load dashboard for home page", "user_id", u.ID, "err", err)
			c.String(http.StatusInternalServerError, "Failed to load dashboard")
			return
		}
	}

	c.HTML(http.StatusOK, "home.html", pages.NewHomeView(h.SiteName, u, c.Request.URL.Path, entries))
}
