package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sustainablecapitolhill/myturn-hacks/pkg/registry"
)

// Builder produces the JavaScript bundle for a registered script.
type Builder interface {
	Build(name string) ([]byte, error)
}

// Dispatcher sends one anonymous shop check-in without waiting for it.
type Dispatcher interface {
	Dispatch()
}

// ServeBundle serves /devscripts/{name}.js. Every request builds the bundle
// from source again, so a page reload always picks up the latest edit.
// Names outside reg get an empty 404; paths not ending in ".js" are left to
// the next route.
func ServeBundle(reg registry.Registry, b Builder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, ok := strings.CutSuffix(c.Params("file"), ".js")
		if !ok || name == "" {
			return c.Next()
		}
		if !reg.Contains(name) {
			c.Status(fiber.StatusNotFound)
			return nil
		}

		js, err := b.Build(name)
		if err != nil {
			return fmt.Errorf("could not build '%s': %w", name, err)
		}

		c.Set(fiber.HeaderContentType, "text/javascript")
		return c.Send(js)
	}
}

// CheckIn logs one shop check-in per request. The rendered check-in buttons
// post here; the response does not wait for the spreadsheet.
func CheckIn(d Dispatcher) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d.Dispatch()
		c.Status(fiber.StatusAccepted)
		return nil
	}
}
