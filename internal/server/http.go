// Package server exposes the daemon's HTTP surface: health, metrics, and the
// export catalog.
package server

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"wxsampler/internal/catalog"
)

// Server wraps the fiber app together with its listen address.
type Server struct {
	app  *fiber.App
	addr string
	log  *zap.Logger
}

// New builds the HTTP server. The exports route is only registered when a
// catalog is configured.
func New(addr string, registry *prometheus.Registry, cat *catalog.Catalog, log *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "wxsampler",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "wxsampler",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	if cat != nil {
		app.Get("/exports", exportsHandler(cat))
	}

	return &Server{app: app, addr: addr, log: log}
}

func exportsHandler(cat *catalog.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := 50
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 || parsed > 500 {
				return fiber.NewError(fiber.StatusBadRequest, "limit must be an integer between 1 and 500")
			}
			limit = parsed
		}

		entries, err := cat.Recent(limit)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read export catalog")
		}
		return c.JSON(fiber.Map{"exports": entries})
	}
}

// Listen blocks serving requests until Shutdown is called.
func (s *Server) Listen() error {
	s.log.Info("http server listening", zap.String("addr", s.addr))
	return s.app.Listen(s.addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
