package handlers

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/proxy"
	_log "github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"

	"github.com/sustainablecapitolhill/myturn-hacks/pkg/config"
	"github.com/sustainablecapitolhill/myturn-hacks/pkg/pagescript"
	"github.com/sustainablecapitolhill/myturn-hacks/pkg/rewrite"
)

var log = _log.WithField("at", "handlers")

// PatchSet returns the page patches for one page load. Patches keep per
// page state, so every response gets a fresh set.
type PatchSet func() *pagescript.Set

// ProxySite forwards every request to the upstream MyTurn site and points
// the response back at the proxy. HTML pages get the registered scripts
// swapped for local bundles and, when patches is not nil, the page patches
// for the request path applied. Everything else is passed through as is.
func ProxySite(cfg config.Config, rw *rewrite.Rewriter, patches PatchSet) fiber.Handler {
	client := &fasthttp.Client{
		NoDefaultUserAgentHeader: true,
		DisablePathNormalizing:   true,
		// MyTurn sets a lot of cookies
		ReadBufferSize: 16 * 1024,
	}
	host := cfg.UpstreamHost()

	return func(c *fiber.Ctx) error {
		path := c.Path()
		url := cfg.Upstream + c.OriginalURL()

		c.Request().Header.SetHost(host)
		if err := proxy.Do(c, url, client); err != nil {
			c.Response().Reset()
			log.WithField("url", url).Error(err)
			return fiber.NewError(fiber.StatusBadGateway, "Could not reach "+cfg.Upstream)
		}

		res := c.Response()
		if loc := res.Header.Peek(fiber.HeaderLocation); len(loc) > 0 {
			res.Header.Set(fiber.HeaderLocation, rw.Location(string(loc)))
		}

		if !rewrite.IsHTML(string(res.Header.ContentType())) || len(res.Body()) == 0 {
			return nil
		}

		enc := string(res.Header.Peek(fiber.HeaderContentEncoding))
		body, err := rewrite.Decode(enc, res.Body())
		if err != nil {
			log.WithFields(_log.Fields{"url": url, "encoding": enc}).Warnf("passing page through unmodified: %v", err)
			return nil
		}

		var extra []func(*goquery.Document)
		if patches != nil {
			set := patches()
			extra = append(extra, func(doc *goquery.Document) {
				if applied := set.Apply(path, doc); len(applied) > 0 {
					log.WithField("path", path).Debugf("applied %v", applied)
				}
			})
		}

		out, err := rw.Document(body, extra...)
		if err != nil {
			log.WithField("url", url).Warnf("passing page through unmodified: %v", err)
			return nil
		}

		res.Header.Del(fiber.HeaderContentEncoding)
		res.SetBody(out)
		return nil
	}
}
