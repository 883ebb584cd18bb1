package admin

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"learning-app/internal/domain/dashboard"
	"learning-app/internal/domain/rights"
	"learning-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	DB  *gorm.DB
	Log *slog.Logger
}

type AdminUser struct {
	ID         uint    `json:"id"`
	Email      string  `json:"email"`
	Username   *string `json:"username,omitempty"`
	Role       string  `json:"role"`
	IsVerified bool    `json:"is_verified"`
	IsEditor   bool    `json:"is_editor"`
	CreatedAt  string  `json:"created_at"`
}

type AdminStats struct {
	TotalUsers            int                   `json:"total_users"`
	TotalEditors          int                   `json:"total_editors"`
	ExplorationsPerStatus map[rights.Status]int `json:"explorations_per_status"`
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func toAdminUser(u users.User) AdminUser {
	return AdminUser{
		ID:         u.ID,
		Email:      u.Email,
		Username:   u.Username,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		IsEditor:   u.IsEditor(),
		CreatedAt:  u.CreatedAt.Format(time.DateTime),
	}
}

// GET /admin/users
func (h *Handler) ListUsers(c *gin.Context) {
	var all []users.User
	if err := h.DB.WithContext(c.Request.Context()).Order("id").Find(&all).Error; err != nil {
		h.Log.Error("list users", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	result := make([]AdminUser, 0, len(all))
	for _, u := range all {
		result = append(result, toAdminUser(u))
	}
	c.JSON(http.StatusOK, result)
}

// GET /admin/stats
func (h *Handler) Stats(c *gin.Context) {
	db := h.DB.WithContext(c.Request.Context())

	var totalUsers, totalEditors int64
	if err := db.Model(&users.User{}).Count(&totalUsers).Error; err != nil {
		h.Log.Error("count users", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}
	if err := db.Model(&users.User{}).Where("username IS NOT NULL AND username <> ''").Count(&totalEditors).Error; err != nil {
		h.Log.Error("count editors", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}

	type statusCount struct {
		Status rights.Status
		Count  int
	}
	var counts []statusCount
	if err := db.Model(&rights.ExplorationRights{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&counts).Error; err != nil {
		h.Log.Error("count explorations", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}

	stats := AdminStats{
		TotalUsers:   int(totalUsers),
		TotalEditors: int(totalEditors),
		ExplorationsPerStatus: map[rights.Status]int{
			rights.StatusPrivate:    0,
			rights.StatusPublic:     0,
			rights.StatusPublicized: 0,
		},
	}
	for _, sc := range counts {
		stats.ExplorationsPerStatus[sc.Status] = sc.Count
	}
	c.JSON(http.StatusOK, stats)
}

// GET /admin/users/:id
func (h *Handler) GetUserDetails(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	u, err := users.FindByID(h.DB.WithContext(c.Request.Context()), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	entries, err := dashboard.ForUser(c.Request.Context(), h.DB, u.ID)
	if err != nil {
		h.Log.Error("load user explorations", "user_id", u.ID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch explorations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":         toAdminUser(u),
		"explorations": entries,
	})
}

// PUT /admin/users/:id/role
func (h *Handler) SetRole(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := users.SetRole(h.DB.WithContext(c.Request.Context()), id, req.Role)
	switch {
	case errors.Is(err, users.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be admin or user"})
		return
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	case err != nil:
		h.Log.Error("set user role", "user_id", id, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}

	h.Log.Info("user role changed", "user_id", id, "role", req.Role)
	c.JSON(http.StatusOK, gin.H{"id": id, "role": req.Role})
}

func parseUserID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return 0, false
	}
	return uint(id), true
}
