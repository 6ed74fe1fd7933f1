// Package pagescript holds the page patches injected into MyTurn pages.
//
// Every patch is gated on the request path and works on a parsed document.
// MyTurn's markup is not under our control, so a patch that cannot find
// what it expects logs a warning and leaves the page alone instead of
// failing.
package pagescript

import (
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	_log "github.com/sirupsen/logrus"
	"github.com/tidwall/match"
)

var log = _log.WithField("at", "pagescript")

// Patch is a single page mutation.
type Patch interface {
	Name() string
	// Matches reports whether the patch runs on pages served at path.
	Matches(path string) bool
	Apply(doc *goquery.Document)
}

// Sender posts one anonymous check-in without blocking the caller.
type Sender interface {
	Dispatch()
}

// gate matches a request path against a tidwall/match pattern.
type gate struct {
	pattern string
}

func (g gate) Matches(path string) bool {
	return match.Match(path, g.pattern)
}

// Set runs the patches that match a path, in registration order.
type Set struct {
	patches []Patch
}

func NewSet(patches ...Patch) *Set {
	return &Set{patches: patches}
}

// Options configures the default patch set.
type Options struct {
	Vocabulary Vocabulary
	Sender     Sender
	// Now defaults to time.Now.
	Now func() time.Time
	// CheckInURL, when set, is where eligible check-in buttons post to
	// when clicked in the browser.
	CheckInURL string
}

// Default returns every patch shipped in the admin footer.
func Default(opts Options) *Set {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	searchUsers := NewSearchUsersCheckIn(opts.Sender, opts.Now)
	searchUsers.action = opts.CheckInURL
	userDetails := NewUserDetailsCheckIn(opts.Sender)
	userDetails.action = opts.CheckInURL

	return NewSet(
		NewLocationSelect(opts.Vocabulary),
		NewNameGuidelines(),
		NewSuggestItemName(),
		searchUsers,
		userDetails,
	)
}

// Apply runs every patch matching path over doc and returns the names of
// the patches that ran. A panicking patch is logged and skipped.
func (s *Set) Apply(path string, doc *goquery.Document) []string {
	var applied []string
	for _, p := range s.patches {
		if !p.Matches(path) {
			continue
		}
		if err := safeApply(p, doc); err != nil {
			log.WithField("patch", p.Name()).Error(err)
			continue
		}
		applied = append(applied, p.Name())
	}
	return applied
}

// Names lists the registered patches in order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.patches))
	for _, p := range s.patches {
		names = append(names, p.Name())
	}
	return names
}

func safeApply(p Patch, doc *goquery.Document) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("patch panicked: %v", r)
		}
	}()
	p.Apply(doc)
	return nil
}
