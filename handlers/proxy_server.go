package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
	_log "github.com/sirupsen/logrus"

	"github.com/sustainablecapitolhill/myturn-hacks/pkg/config"
	"github.com/sustainablecapitolhill/myturn-hacks/pkg/rewrite"
)

// CheckInPath is where rendered check-in buttons post to.
const CheckInPath = "/devscripts/checkin"

// NewApp wires the bundle server and the check-in route in front of the
// upstream proxy. patches may be nil, in which case pages are only
// rewritten to load local bundles. A nil d leaves the check-in path to the
// proxy.
func NewApp(cfg config.Config, b Builder, patches PatchSet, d Dispatcher) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadBufferSize:        16 * 1024,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestLogger)

	reg := cfg.Registry()
	rw := rewrite.New(cfg.Upstream, cfg.LocalOrigin(), reg)

	if d != nil {
		app.Post(CheckInPath, CheckIn(d))
	}
	app.Get("/devscripts/:file", ServeBundle(reg, b))
	app.All("/*", ProxySite(cfg, rw, patches))

	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	log.WithFields(_log.Fields{
		"method": c.Method(),
		"path":   c.Path(),
		"status": code,
	}).Error(err)

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(code).SendString(utils.StatusMessage(code))
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	id := uuid.NewString()

	err := c.Next()

	entry := log.WithFields(_log.Fields{
		"id":     id,
		"method": c.Method(),
		"path":   c.Path(),
		"status": c.Response().StatusCode(),
		"ms":     time.Since(start).Milliseconds(),
	})
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Debug("request")
	return err
}
