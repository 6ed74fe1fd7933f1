package pagescript

import (
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/sustainablecapitolhill/myturn-hacks/pkg/dom"
)

const idWarning = "confirm that they are at least 18 years old on their ID"

// UserDetailsCheckIn adds a check-in button to the top of a user's details
// page. Admins editing a membership land back on this page, so the
// membership edit page does not need one.
type UserDetailsCheckIn struct {
	gate
	sender Sender
	action string

	mu     sync.Mutex
	button *CheckInButton
}

func NewUserDetailsCheckIn(sender Sender) *UserDetailsCheckIn {
	return &UserDetailsCheckIn{
		gate:   gate{pattern: "/library/orgMembership/userDetails"},
		sender: sender,
	}
}

func (p *UserDetailsCheckIn) Name() string { return "user-details-shop-check-in-button" }

func (p *UserDetailsCheckIn) Apply(doc *goquery.Document) {
	p.mu.Lock()
	defer p.mu.Unlock()

	log := log.WithField("patch", p.Name())

	membership := formGroupValue(doc, "Membership Type")
	warning := formGroupValue(doc, "Warning")
	if membership.Length() != 1 || warning.Length() != 1 {
		log.Debugf("expected one membership and one warning field, found %d and %d", membership.Length(), warning.Length())
		return
	}

	badge, _ := dom.Text(membership, "span.badge")
	active := badge == "Active"
	idConfirmed := !strings.Contains(strings.TrimSpace(warning.Text()), idWarning)

	last, ok := dom.First(doc.Selection, "div.actions div.btn-group a:last-of-type")
	if !ok {
		log.Warn("Could not find the user action buttons")
		return
	}
	if strings.HasSuffix(last.AttrOr("href", ""), sentinelHref) {
		return
	}
	group, ok := dom.Parent(last)
	if !ok {
		return
	}

	b, ok := newCheckInButton(last, false, p.action, p.sender, log)
	if !ok {
		return
	}
	switch {
	case !active:
		b.markIneligible(titleMembership)
	case !idConfirmed:
		b.markIneligible(titleID)
	default:
		b.markEligible()
	}

	group.AppendSelection(b.Selection())
	p.button = b
}

// Button returns the button added by the last successful Apply.
func (p *UserDetailsCheckIn) Button() (*CheckInButton, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.button, p.button != nil
}

// formGroupValue finds the value cells of the form-group whose control
// label reads exactly label. The details page has no better hooks than the
// label text.
func formGroupValue(doc *goquery.Document, label string) *goquery.Selection {
	return doc.Find("div").
		FilterFunction(func(_ int, s *goquery.Selection) bool {
			return s.AttrOr("class", "") == "form-group"
		}).
		ChildrenFiltered("label.control-label").
		FilterFunction(func(_ int, s *goquery.Selection) bool {
			return dom.HasOwnText(s, label)
		}).
		NextAllFiltered("div").
		ChildrenFiltered("div")
}
