package main

import (
	"log/slog"
	"os"
	"time"

	"learning-app/config"
	"learning-app/database"
	authapi "learning-app/internal/api/auth"
	routes "learning-app/internal/app/http"
	"learning-app/internal/domain/users"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadEnv()
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}

	db, err := database.Open(cfg.DBURL)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	if err := users.SetAdmins(db, cfg.AdminEmails); err != nil {
		logger.Error("apply ADMIN_EMAILS", "err", err)
		os.Exit(1)
	}

	var mailer authapi.Mailer = authapi.LogMailer{Log: logger}
	if cfg.SMTPHost != "" {
		mailer = authapi.SMTPMailer{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			From:     cfg.SMTPFrom,
			Password: cfg.SMTPPassword,
		}
	}

	var google *authapi.GoogleConfig
	if cfg.GoogleEnabled() {
		google = &authapi.GoogleConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
		}
	}

	r := gin.Default()

	if cfg.CORSOrigin != "" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{cfg.CORSOrigin},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	routes.RegisterRoutes(r, routes.Deps{
		DB:     db,
		Config: cfg,
		Log:    logger,
		Mailer: mailer,
		Google: google,
	})

	logger.Info("listening", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
