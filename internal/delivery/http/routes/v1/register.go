package v1

import (
	"log"

	"cv-intake/internal/config"
	"cv-intake/internal/database"
	"cv-intake/internal/delivery/http/handler"
	"cv-intake/internal/delivery/http/middleware"
	"cv-intake/internal/infrastructure/parser"
	"cv-intake/internal/infrastructure/storage"
	"cv-intake/internal/infrastructure/webhook"
	"cv-intake/internal/pkg/jwt"
	"cv-intake/internal/repository"
	"cv-intake/internal/usecase"
	ucauth "cv-intake/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
)

type Deps struct {
	Config   config.Config
	DB       database.DB
	Uploader storage.Uploader
	Parser   parser.Gateway
	Notifier webhook.Notifier
	Cache    usecase.ListCache
	Logger   *log.Logger
}

func Register(r fiber.Router, deps Deps) {
	if r == nil {
		return
	}

	cfg := deps.Config

	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)
	authMw := middleware.NewAuthMiddleware(jwtSvc)

	apps := repository.NewPostgresApplicationRepository(deps.DB)

	submitUC := usecase.NewSubmissionUsecase(
		apps, deps.Uploader, deps.Parser, deps.Notifier, deps.Cache,
		cfg.Webhook.Retries, cfg.Webhook.RetryDelay, deps.Logger,
	)
	listUC := usecase.NewApplicationListUsecase(apps, deps.Cache, deps.Logger)
	appUC := usecase.NewApplicationUsecase(apps, deps.Cache, deps.Logger)
	resendUC := usecase.NewResendUsecase(apps, deps.Notifier, deps.Cache, deps.Logger)
	authUC := ucauth.NewService(cfg.Operator, jwtSvc)

	appHandler := handler.NewApplicationHandler(submitUC, listUC, appUC, resendUC)
	authHandler := handler.NewAuthHandler(authUC)

	authGroup := r.Group("/auth")
	authHandler.RegisterRoutes(authGroup)

	applications := r.Group("/applications")
	applications.Post("", appHandler.HandleSubmit)

	reviewed := applications.Group("", authMw.Middleware())
	reviewed.Get("", appHandler.HandleList)
	reviewed.Get("/:id", appHandler.HandleGet)
	reviewed.Post("/:id/resend-webhook", appHandler.HandleResendWebhook)
	reviewed.Patch("/:id/status", appHandler.HandleUpdateStatus)
	reviewed.Patch("/:id/notes", appHandler.HandleUpdateNotes)
}
