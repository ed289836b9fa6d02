package app

import (
	"fmt"
	"strings"

	"cv-intake/internal/config"
	"cv-intake/internal/delivery/http/middleware"
	"cv-intake/internal/delivery/http/routes"
	v1 "cv-intake/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

// Résumé uploads arrive as multipart bodies; the default Fiber limit is too
// small for larger PDFs.
const bodyLimit = 25 * 1024 * 1024

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}

	f := fiber.New(fiber.Config{
		AppName:   cfg.App.AppName,
		BodyLimit: bodyLimit,
	})

	registerGlobalMiddleware(f, c)
	registerRoutes(f, c)

	app := &App{Fiber: f, Container: c}
	return app, c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	app.Use(cors.New())
	app.Use(middleware.NewAccessLogMiddleware(c.Logger).Middleware())
	app.Use(middleware.NewErrorMiddleware().Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil || c == nil {
		return
	}

	registry := routes.NewRegistry(v1.Deps{
		Config:   c.Config,
		DB:       c.DB,
		Uploader: c.Uploader,
		Parser:   c.Parser,
		Notifier: c.Notifier,
		Cache:    c.Cache,
		Logger:   c.Logger,
	})
	registry.Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
