package rewrite

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sustainablecapitolhill/myturn-hacks/pkg/registry"
)

// MarkerPrefix starts the id given to every swapped-in script tag.
const MarkerPrefix = "__devscript="

// IsHTML reports whether a response with this content type is rewritten.
// Everything else is passed through untouched.
func IsHTML(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "text/html")
}

// Rewriter points upstream pages back at the dev proxy.
type Rewriter struct {
	upstream string
	local    string
	names    []string
}

// New returns a rewriter replacing the upstream origin with localOrigin and
// swapping in local bundles for every name in reg.
func New(upstream, localOrigin string, reg registry.Registry) *Rewriter {
	return &Rewriter{
		upstream: strings.TrimRight(upstream, "/"),
		local:    strings.TrimRight(localOrigin, "/"),
		names:    reg.Names(),
	}
}

// Location keeps redirects on the proxy.
func (r *Rewriter) Location(location string) string {
	return strings.ReplaceAll(location, r.upstream, r.local)
}

// ScriptURL is where the proxy serves the bundle for name.
func (r *Rewriter) ScriptURL(name string) string {
	return fmt.Sprintf("%s/devscripts/%s.js", r.local, name)
}

// Scripts swaps the first <script> whose src ends with "{name}.js" for each
// registered name. Names without a matching tag are skipped. It returns the
// names that were swapped.
func (r *Rewriter) Scripts(doc *goquery.Document) []string {
	var swapped []string
	for _, name := range r.names {
		el := doc.Find(fmt.Sprintf(`script[src$=%q]`, name+".js")).First()
		if el.Length() == 0 {
			continue
		}
		el.SetAttr("id", MarkerPrefix+name)
		el.SetAttr("src", r.ScriptURL(name))
		swapped = append(swapped, name)
	}
	return swapped
}

// Document parses body, swaps script tags, runs each of extra over the
// parsed document and serializes it again.
func (r *Rewriter) Document(body []byte, extra ...func(*goquery.Document)) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("could not parse HTML: %w", err)
	}

	r.Scripts(doc)
	for _, fn := range extra {
		fn(doc)
	}

	html, err := doc.Html()
	if err != nil {
		return nil, fmt.Errorf("could not render HTML: %w", err)
	}
	return []byte(html), nil
}
