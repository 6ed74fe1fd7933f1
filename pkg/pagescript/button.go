package pagescript

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	_log "github.com/sirupsen/logrus"
	"go.uber.org/atomic"
	"golang.org/x/net/html"

	"github.com/sustainablecapitolhill/myturn-hacks/pkg/dom"
)

// The button labels use a leading space, like MyTurn's own buttons, to
// separate the text from the icon.
const (
	LabelCheckIn    = " Check In To Shop"
	LabelCheckedIn  = " Checked In To Shop"
	LabelIneligible = " Ineligible For Shop"
)

const (
	// sentinelHref marks an anchor as our check-in button.
	sentinelHref = "#"

	titleMembership = "Patron is not eligible based on membership status"
	titleID         = "Patron is not eligible until ID is confirmed"
)

// CheckInButton is a copy of one of MyTurn's action buttons turned into a
// shop check-in button.
type CheckInButton struct {
	anchor *goquery.Selection
	icon   *goquery.Selection
	text   *html.Node

	// restyle swaps the button colour as well as the icon
	restyle bool
	// action is the check-in URL a browser click posts to
	action   string
	eligible bool
	sender   Sender
	clicked  *atomic.Bool
}

// newCheckInButton clones template. It gives up, with a warning, when the
// template has no icon or no text to relabel. When action is set, eligible
// buttons post to it when clicked in the browser.
func newCheckInButton(template *goquery.Selection, restyle bool, action string, sender Sender, log *_log.Entry) (*CheckInButton, bool) {
	anchor := template.Clone()

	icon, ok := dom.FirstElementChild(anchor)
	if !ok {
		log.Warn("Could not find the icon for the shop check-in button")
		return nil, false
	}
	text, ok := dom.FirstTextChild(anchor)
	if !ok {
		log.Warn("Could not find and set the text node for the shop check-in button")
		return nil, false
	}

	anchor.SetAttr("href", sentinelHref)
	if restyle {
		dom.SwapClass(anchor, "btn-primary", "btn-warning")
	}
	dom.SwapClass(icon, "fa-shopping-cart")

	return &CheckInButton{
		anchor:  anchor,
		icon:    icon,
		text:    text,
		restyle: restyle,
		action:  action,
		sender:  sender,
		clicked: atomic.NewBool(false),
	}, true
}

func (b *CheckInButton) markEligible() {
	b.eligible = true
	dom.SwapClass(b.icon, "", "fa-wrench")
	b.text.Data = LabelCheckIn
	if b.action != "" {
		b.anchor.SetAttr("onclick", b.onclick())
	}
}

// onclick is the browser side of Click: flip to checked in once, post to
// the check-in URL without waiting, and never follow the "#" link.
func (b *CheckInButton) onclick() string {
	restyle := ""
	if b.restyle {
		restyle = `this.classList.remove("btn-warning");this.classList.add("btn-success");`
	}
	return fmt.Sprintf(
		`if(!this.dataset.checkedIn){this.dataset.checkedIn="1";`+
			`var i=this.querySelector("i");i.classList.remove("fa-wrench");i.classList.add("fa-check");%s`+
			`this.lastChild.textContent=%q;fetch(%q,{method:"POST"}).catch(console.error);}return false;`,
		restyle, LabelCheckedIn, b.action)
}

// markIneligible also disables the button; MyTurn's CSS blocks clicks on
// disabled anchors.
func (b *CheckInButton) markIneligible(title string) {
	b.eligible = false
	dom.SwapClass(b.icon, "", "fa-ban")
	dom.SwapClass(b.anchor, "", "disabled")
	b.anchor.SetAttr("title", title)
	b.text.Data = LabelIneligible
}

// Click checks the patron in. The first click on an eligible button flips
// it to its checked-in state and dispatches one anonymous check-in; the
// button shows success whether or not that request gets through. Every
// later click, and any click on an ineligible button, does nothing. It
// reports whether this click checked the patron in.
func (b *CheckInButton) Click() bool {
	if !b.eligible || !b.clicked.CompareAndSwap(false, true) {
		return false
	}

	dom.SwapClass(b.icon, "fa-wrench", "fa-check")
	if b.restyle {
		dom.SwapClass(b.anchor, "btn-warning", "btn-success")
	}
	b.text.Data = LabelCheckedIn

	if b.sender != nil {
		b.sender.Dispatch()
	}
	return true
}

func (b *CheckInButton) Label() string { return b.text.Data }
func (b *CheckInButton) Eligible() bool { return b.eligible }
func (b *CheckInButton) Disabled() bool { return b.anchor.HasClass("disabled") }
func (b *CheckInButton) CheckedIn() bool { return b.clicked.Load() }
func (b *CheckInButton) Selection() *goquery.Selection { return b.anchor }
