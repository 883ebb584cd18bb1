package users

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"learning-app/internal/app/http/middleware"
	"learning-app/internal/domain/access"
	"learning-app/internal/domain/users"
	"learning-app/internal/infra/session"
	"learning-app/internal/web/pages"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	DB       *gorm.DB
	Log      *slog.Logger
	SiteName string
}

// GET /profilehandler/data
func (h *Handler) ProfileData(c *gin.Context) {
	u := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, ProfileResponse{
		Email:    u.Email,
		Username: u.Username,
		IsEditor: u.IsEditor(),
		IsAdmin:  u.IsAdmin(),
	})
}

// GET /profile
func (h *Handler) ProfilePage(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if u == nil {
		c.Redirect(http.StatusFound, session.LoginURL(c.Request.URL.Path))
		return
	}
	c.HTML(http.StatusOK, "profile.html", pages.ProfileView{
		Nav:      pages.NewNav(h.SiteName, access.ComputePolicy(u), u, c.Request.URL.Path),
		Email:    u.Email,
		IsEditor: u.IsEditor(),
		IsAdmin:  u.IsAdmin(),
	})
}

// GET /signup
func (h *Handler) SignupPage(c *gin.Context) {
	u := middleware.CurrentUser(c)
	returnURL := session.SafeReturnPath(c.Query(session.ReturnKey))
	if u == nil {
		c.Redirect(http.StatusFound, session.LoginURL(c.Request.URL.RequestURI()))
		return
	}
	if u.IsEditor() {
		c.Redirect(http.StatusFound, returnURL)
		return
	}
	h.renderSignup(c, http.StatusOK, u, returnURL, "")
}

func (h *Handler) renderSignup(c *gin.Context, status int, u *users.User, returnURL, errMsg string) {
	c.HTML(status, "signup.html", pages.SignupView{
		Nav:       pages.NewNav(h.SiteName, access.ComputePolicy(u), u, returnURL),
		ReturnURL: returnURL,
		Error:     errMsg,
	})
}

// POST /signup
func (h *Handler) Signup(c *gin.Context) {
	u := middleware.CurrentUser(c)
	jsonReq := strings.HasPrefix(c.ContentType(), "application/json")

	var req SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		h.signupFailed(c, jsonReq, http.StatusBadRequest, u, req.ReturnURL, "Please choose a username.")
		return
	}

	err := users.RegisterEditor(h.DB.WithContext(c.Request.Context()), u, req.Username, req.AgreedToTerms)
	switch {
	case err == nil:
	case errors.Is(err, users.ErrInvalidUsername), errors.Is(err, users.ErrTermsNotAccepted):
		h.signupFailed(c, jsonReq, http.StatusBadRequest, u, req.ReturnURL, err.Error())
		return
	case errors.Is(err, users.ErrUsernameTaken), errors.Is(err, users.ErrAlreadyRegistered):
		h.signupFailed(c, jsonReq, http.StatusConflict, u, req.ReturnURL, err.Error())
		return
	default:
		h.Log.Error("register editor", "user_id", u.ID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register editor"})
		return
	}

	if jsonReq {
		c.JSON(http.StatusOK, gin.H{"username": *u.Username})
		return
	}
	c.Redirect(http.StatusFound, session.SafeReturnPath(req.ReturnURL))
}

func (h *Handler) signupFailed(c *gin.Context, jsonReq bool, status int, u *users.User, returnURL, msg string) {
	if jsonReq {
		c.JSON(status, gin.H{"error": msg})
		return
	}
	h.renderSignup(c, status, u, session.SafeReturnPath(returnURL), msg)
}
