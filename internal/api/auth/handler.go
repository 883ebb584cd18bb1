package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"learning-app/internal/app/http/middleware"
	"learning-app/internal/domain/access"
	"learning-app/internal/domain/users"
	"learning-app/internal/infra/session"
	"learning-app/internal/web/pages"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const verificationTTL = 48 * time.Hour

type Handler struct {
	DB         *gorm.DB
	Log        *slog.Logger
	Mailer     Mailer
	Secret     []byte
	SessionTTL time.Duration
	BaseURL    string
	SiteName   string
	Google     *GoogleConfig
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func isPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter := false
	hasDigit := false
	for _, c := range password {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
			hasLetter = true
		case '0' <= c && c <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

func isEmailValid(email string) bool {
	return emailPattern.MatchString(email)
}

func generateVerificationToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func wantsJSON(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "application/json")
}

func (h *Handler) setSessionCookie(c *gin.Context, user users.User) (string, error) {
	token, err := session.Issue(h.Secret, user, h.SessionTTL)
	if err != nil {
		return "", err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, token, int(h.SessionTTL.Seconds()), "/", "", strings.HasPrefix(h.BaseURL, "https://"), true)
	return token, nil
}

// GET /login
func (h *Handler) LoginPage(c *gin.Context) {
	returnURL := session.SafeReturnPath(c.Query(session.ReturnKey))
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, returnURL)
		return
	}
	h.renderLogin(c, http.StatusOK, returnURL, "")
}

func (h *Handler) renderLogin(c *gin.Context, status int, returnURL, errMsg string) {
	nav := pages.NewNav(h.SiteName, access.ComputePolicy(nil), nil, returnURL)
	c.HTML(status, "login.html", pages.LoginView{
		Nav:           nav,
		ReturnURL:     returnURL,
		GoogleEnabled: h.Google != nil,
		Error:         errMsg,
	})
}

type loginInput struct {
	Email     string `json:"email" form:"email" binding:"required,email"`
	Password  string `json:"password" form:"password" binding:"required"`
	ReturnURL string `json:"return_url" form:"return_url"`
}

// POST /login
func (h *Handler) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBind(&input); err != nil {
		h.loginFailed(c, http.StatusBadRequest, input.ReturnURL, "Please enter your email and password.")
		return
	}

	user, err := users.FindByEmail(h.DB.WithContext(c.Request.Context()), input.Email)
	if err != nil {
		h.loginFailed(c, http.StatusUnauthorized, input.ReturnURL, "Invalid credentials")
		return
	}
	if user.Password == nil || *user.Password == "" {
		h.loginFailed(c, http.StatusUnauthorized, input.ReturnURL, "This account uses Google sign-in")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(input.Password)); err != nil {
		h.loginFailed(c, http.StatusUnauthorized, input.ReturnURL, "Invalid credentials")
		return
	}
	if !user.IsVerified {
		h.loginFailed(c, http.StatusForbidden, input.ReturnURL, "Please verify your email before logging in")
		return
	}

	token, err := h.setSessionCookie(c, user)
	if err != nil {
		h.Log.Error("issue session", "user_id", user.ID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create session"})
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"token": token})
		return
	}
	c.Redirect(http.StatusFound, session.SafeReturnPath(input.ReturnURL))
}

func (h *Handler) loginFailed(c *gin.Context, status int, returnURL, msg string) {
	if wantsJSON(c) {
		c.JSON(status, gin.H{"error": msg})
		return
	}
	h.renderLogin(c, status, session.SafeReturnPath(returnURL), msg)
}

// GET /logout
func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, "", -1, "/", "", strings.HasPrefix(h.BaseURL, "https://"), true)
	c.Redirect(http.StatusFound, session.SafeReturnPath(c.Query(session.ReturnKey)))
}

// POST /register
func (h *Handler) Register(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !isEmailValid(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		return
	}
	if !isPasswordStrong(input.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 8 characters long and contain both letters and numbers"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	hashed := string(hashedPassword)

	token, err := generateVerificationToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create verification token"})
		return
	}

	user := users.User{
		Email:        email,
		Password:     &hashed,
		AuthProvider: users.ProviderLocal,
		Role:         users.RoleUser,
	}

	err = h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&users.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return errEmailTaken
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&users.VerificationToken{
			UserID:    user.ID,
			Token:     token,
			Kind:      users.TokenEmailVerification,
			ExpiresAt: time.Now().Add(verificationTTL),
		}).Error
	})
	if errors.Is(err, errEmailTaken) {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}
	if err != nil {
		h.Log.Error("register user", "email", email, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	link := h.BaseURL + "/verify?token=" + token
	if err := h.Mailer.SendVerificationEmail(user.Email, link); err != nil {
		h.Log.Error("send verification email", "user_id", user.ID, "err", err)
		// Without the email the account can never be verified; let the user register again.
		if derr := users.DeleteUnverified(h.DB.WithContext(c.Request.Context()), user.ID); derr != nil {
			h.Log.Error("roll back unverified user", "user_id", user.ID, "err", derr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send verification email"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully. Please check your email to verify your account."})
}

var errEmailTaken = errors.New("email already registered")

// GET /verify
func (h *Handler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token"})
		return
	}

	userID, err := users.ConsumeVerificationToken(h.DB.WithContext(c.Request.Context()), token, time.Now())
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, users.ErrTokenExpired) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		return
	}
	if err != nil {
		h.Log.Error("verify email", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify user"})
		return
	}
	h.Log.Info("email verified", "user_id", userID)

	c.Redirect(http.StatusFound, session.LoginURL("/"))
}
