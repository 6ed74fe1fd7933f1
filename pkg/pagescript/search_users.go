package pagescript

import (
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"

	"github.com/sustainablecapitolhill/myturn-hacks/pkg/debounce"
	"github.com/sustainablecapitolhill/myturn-hacks/pkg/dom"
	"github.com/sustainablecapitolhill/myturn-hacks/pkg/watch"
)

// DefaultObserveDelay is how long table updates are coalesced before the
// buttons are re-applied.
const DefaultObserveDelay = 500 * time.Millisecond

// zero-based positions in the user list table
const (
	membershipColumn = 6
	expirationColumn = 7
)

const emptyTablePlaceholder = "No data available in table"

// ValidMembershipTypes may use the shop, as long as they have not expired.
var ValidMembershipTypes = []string{
	"Standard (Annual)",
	"Standard (Monthly)",
	"Flexible",
	"Sustaining (Annual)",
	"regular",
}

// isoDate is read as UTC midnight, like the browser's Date parser does.
// Every other layout is read in local time.
const isoDate = "2006-01-02"

var expirationLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	isoDate,
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"01/02/2006 15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// SearchUsersCheckIn adds a check-in button to every row of the Find
// User table.
type SearchUsersCheckIn struct {
	gate
	sender Sender
	now    func() time.Time
	loc    *time.Location
	action string

	mu      sync.Mutex
	buttons []*CheckInButton
}

func NewSearchUsersCheckIn(sender Sender, now func() time.Time) *SearchUsersCheckIn {
	if now == nil {
		now = time.Now
	}
	return &SearchUsersCheckIn{
		gate:   gate{pattern: "/library/orgMembership/searchUsers"},
		sender: sender,
		now:    now,
		loc:    time.Local,
	}
}

func (p *SearchUsersCheckIn) Name() string { return "search-users-shop-check-in-button" }

// Apply adds the buttons to rows that do not have one yet.
func (p *SearchUsersCheckIn) Apply(doc *goquery.Document) {
	p.mu.Lock()
	defer p.mu.Unlock()

	log := log.WithField("patch", p.Name())

	headers := doc.Find("table#user-list thead tr th")
	if strings.TrimSpace(headers.Eq(membershipColumn).Text()) != "Membership" ||
		strings.TrimSpace(headers.Eq(expirationColumn).Text()) != "Expiration" {
		log.Error(`Could not find the expected "Membership" or "Expiration" columns in user list table`)
		return
	}

	doc.Find("table#user-list tbody tr").Each(func(_ int, row *goquery.Selection) {
		// nth-of-type is one-based
		membership, hasMembership := dom.Text(row, "td:nth-of-type(7)")
		expiration, hasExpiration := dom.Text(row, "td:nth-of-type(8)")

		cell, ok := dom.First(row, "td.action-buttons")
		if !ok {
			log.Warn("Could not find action buttons in the user row")
			return
		}

		eligible := hasMembership && hasExpiration &&
			lo.Contains(ValidMembershipTypes, membership) &&
			p.current(expiration)

		if b, ok := p.addButton(cell, eligible); ok {
			p.buttons = append(p.buttons, b)
		}
	})
}

// Observe re-applies the patch whenever src reports rows added to the user
// table, coalescing bursts within delay. Notifications that only add the
// empty-table placeholder are ignored. Observing a page without the table
// is a no-op.
func (p *SearchUsersCheckIn) Observe(doc *goquery.Document, src watch.Source, delay time.Duration) (stop func()) {
	if _, ok := dom.First(doc.Selection, "table#user-list tbody"); !ok {
		log.WithField("patch", p.Name()).Warn("Could not find the user list table to observe")
		return func() {}
	}

	d := debounce.New(delay, func() { p.Apply(doc) })
	return src.Subscribe(func(c watch.Change) {
		if len(c.Added) == 0 || strings.TrimSpace(c.Added[0]) == emptyTablePlaceholder {
			return
		}
		d.Trigger()
	})
}

// Buttons returns the buttons added so far, in table order.
func (p *SearchUsersCheckIn) Buttons() []*CheckInButton {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*CheckInButton(nil), p.buttons...)
}

func (p *SearchUsersCheckIn) addButton(cell *goquery.Selection, eligible bool) (*CheckInButton, bool) {
	last, ok := dom.First(cell, "a:last-of-type")
	if !ok {
		return nil, false
	}
	// some browsers expand "#" to the full page URL
	if strings.HasSuffix(last.AttrOr("href", ""), sentinelHref) {
		return nil, false
	}

	b, ok := newCheckInButton(last, true, p.action, p.sender, log.WithField("patch", p.Name()))
	if !ok {
		return nil, false
	}
	if eligible {
		b.markEligible()
	} else {
		b.markIneligible(titleMembership)
	}

	cell.AppendSelection(b.Selection())
	return b, true
}

// current reports whether a membership expiring at expiration is still
// valid. Unparseable dates are treated as expired.
func (p *SearchUsersCheckIn) current(expiration string) bool {
	exp, ok := parseExpiration(expiration, p.loc)
	return ok && !exp.Before(p.now())
}

func parseExpiration(s string, loc *time.Location) (time.Time, bool) {
	for _, layout := range expirationLayouts {
		in := loc
		if layout == isoDate {
			in = time.UTC
		}
		if t, err := time.ParseInLocation(layout, s, in); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
