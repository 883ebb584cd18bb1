package routes

import (
	"log/slog"
	"net/http"

	"learning-app/config"
	adminapi "learning-app/internal/api/admin"
	authapi "learning-app/internal/api/auth"
	dashboardapi "learning-app/internal/api/dashboard"
	explorationsapi "learning-app/internal/api/explorations"
	homeapi "learning-app/internal/api/home"
	usersapi "learning-app/internal/api/users"
	"learning-app/internal/app/http/middleware"
	"learning-app/internal/domain/rights"
	"learning-app/internal/domain/users"
	"learning-app/internal/web/pages"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps is everything the handlers need; main builds it once.
type Deps struct {
	DB     *gorm.DB
	Config config.Config
	Log    *slog.Logger
	Mailer authapi.Mailer
	Google *authapi.GoogleConfig
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	secret := []byte(d.Config.JWTSecret)

	home := &homeapi.Handler{DB: d.DB, Log: d.Log, SiteName: d.Config.SiteName}
	auth := &authapi.Handler{
		DB:         d.DB,
		Log:        d.Log,
		Mailer:     d.Mailer,
		Secret:     secret,
		SessionTTL: d.Config.SessionTTL,
		BaseURL:    d.Config.BaseURL,
		SiteName:   d.Config.SiteName,
		Google:     d.Google,
	}
	profile := &usersapi.Handler{DB: d.DB, Log: d.Log, SiteName: d.Config.SiteName}
	dash := &dashboardapi.Handler{DB: d.DB, Log: d.Log}
	exps := &explorationsapi.Handler{DB: d.DB, Rights: rights.NewManager(d.DB), Log: d.Log}
	admin := &adminapi.Handler{DB: d.DB, Log: d.Log}

	r.SetHTMLTemplate(pages.Templates())
	r.Use(middleware.LoadSession(d.DB, secret))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Pages
	r.GET("/", home.Index)
	r.GET("/login", auth.LoginPage)
	r.GET("/logout", auth.Logout)
	r.GET("/verify", auth.VerifyEmail)
	r.GET("/auth/google", auth.GoogleStart)
	r.GET("/auth/google/callback", auth.GoogleCallback)
	r.GET("/profile", profile.ProfilePage)
	r.GET("/signup", profile.SignupPage)
	r.GET("/explorehandler/rights/:id", exps.GetRights)

	// Sanitized input from anyone
	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())
	public.POST("/login", auth.Login)
	public.POST("/register", auth.Register)

	// Authenticated
	authed := r.Group("/")
	authed.Use(middleware.RequireAuth(), middleware.SanitizeAndCleanInputMiddleware())
	authed.GET("/dashboardhandler/data", dash.Data)
	authed.GET("/profilehandler/data", profile.ProfileData)
	authed.POST("/signup", profile.Signup)
	authed.POST("/explorehandler/rights/:id/roles", exps.AssignRole)
	authed.POST("/explorehandler/rights/:id/publish", exps.Publish)
	authed.POST("/explorehandler/rights/:id/publicize", exps.Publicize)

	// Registered editors
	editors := authed.Group("/")
	editors.Use(middleware.RequireEditor())
	editors.POST("/create", exps.Create)

	// Admin routes
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.RequireRole(users.RoleAdmin), middleware.SanitizeAndCleanInputMiddleware())
	adminGroup.GET("/users", admin.ListUsers)
	adminGroup.GET("/users/:id", admin.GetUserDetails)
	adminGroup.PUT("/users/:id/role", admin.SetRole)
	adminGroup.GET("/stats", admin.Stats)
}
