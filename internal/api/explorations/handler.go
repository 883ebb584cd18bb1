package explorations

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"learning-app/internal/app/http/middleware"
	"learning-app/internal/domain/explorations"
	"learning-app/internal/domain/rights"
	"learning-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	DB     *gorm.DB
	Rights *rights.Manager
	Log    *slog.Logger
}

// POST /create
func (h *Handler) Create(c *gin.Context) {
	u := middleware.CurrentUser(c)

	var req CreateRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exp := explorations.Exploration{
		Title:     req.Title,
		Category:  req.Category,
		Objective: req.Objective,
	}
	if err := explorations.SaveNew(h.DB.WithContext(c.Request.Context()), &exp, u.ID); err != nil {
		if errors.Is(err, explorations.ErrTitleRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.Log.Error("create exploration", "user_id", u.ID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create exploration"})
		return
	}

	if strings.HasPrefix(c.ContentType(), "application/json") {
		c.JSON(http.StatusCreated, gin.H{"exploration_id": exp.ID})
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// GET /explorehandler/rights/:id
func (h *Handler) GetRights(c *gin.Context) {
	id := c.Param("id")
	snap, err := h.Rights.Snapshot(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, id, err)
		return
	}
	// Private explorations are hidden from users who cannot view them.
	if !rights.CanView(middleware.CurrentUser(c), snap) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Exploration not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exploration_id": id, "rights": snap})
}

// POST /explorehandler/rights/:id/roles
func (h *Handler) AssignRole(c *gin.Context) {
	id := c.Param("id")
	u := middleware.CurrentUser(c)

	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	role, err := rights.ParseRole(req.NewMemberRole)
	if err != nil {
		h.writeError(c, id, err)
		return
	}

	assigneeID := req.NewMemberID
	if req.NewMemberEmail != "" {
		assignee, err := users.FindByEmail(h.DB.WithContext(c.Request.Context()), req.NewMemberEmail)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No user with this email exists"})
			return
		}
		if err != nil {
			h.writeError(c, id, err)
			return
		}
		assigneeID = assignee.ID
	}
	if assigneeID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "new_member_email or new_member_id is required"})
		return
	}

	if err := h.Rights.AssignRole(c.Request.Context(), u.ID, id, assigneeID, role); err != nil {
		h.writeError(c, id, err)
		return
	}
	h.respondWithRights(c, id)
}

// POST /explorehandler/rights/:id/publish
func (h *Handler) Publish(c *gin.Context) {
	id := c.Param("id")
	if err := h.Rights.PublishExploration(c.Request.Context(), middleware.CurrentUser(c).ID, id); err != nil {
		h.writeError(c, id, err)
		return
	}
	h.respondWithRights(c, id)
}

// POST /explorehandler/rights/:id/publicize
func (h *Handler) Publicize(c *gin.Context) {
	id := c.Param("id")
	if err := h.Rights.PublicizeExploration(c.Request.Context(), middleware.CurrentUser(c).ID, id); err != nil {
		h.writeError(c, id, err)
		return
	}
	h.respondWithRights(c, id)
}

func (h *Handler) respondWithRights(c *gin.Context, id string) {
	snap, err := h.Rights.Snapshot(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exploration_id": id, "rights": snap})
}

func (h *Handler) writeError(c *gin.Context, id string, err error) {
	switch {
	case errors.Is(err, rights.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Exploration not found"})
	case errors.Is(err, rights.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to do this"})
	case errors.Is(err, rights.ErrInvalidRole),
		errors.Is(err, rights.ErrAlreadyHasRole),
		errors.Is(err, rights.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.Log.Error("exploration rights", "exploration_id", id, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}
