package pagescript

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sustainablecapitolhill/myturn-hacks/pkg/dom"
)

const nameHelpSelector = "div.form-group:has(input#attribute_name) div.help-block"

const nameGuidelines = `The item's name. Please use <a target="_blank" href="https://en.wikipedia.org/wiki/Title_case">title case</a> and be concise; details like brand, size, and color should be noted in other fields instead, unless they're integral to how this item functions.`

const shortNameAlert = `<div class='alert alert-info'>If not using the suggested name, keep the item's name as short as possible and Capitalize Each Word. Don't include details like manufacturer, model, or size here; use the fields below instead.</div>`

// NameGuidelines replaces the help text under the item Name field with our
// naming guidelines.
type NameGuidelines struct {
	gate
}

func NewNameGuidelines() *NameGuidelines {
	return &NameGuidelines{gate: gate{pattern: "/library/orgInventory/create"}}
}

func (p *NameGuidelines) Name() string { return "add-item-name-guidelines" }

func (p *NameGuidelines) Apply(doc *goquery.Document) {
	help, ok := dom.First(doc.Selection, nameHelpSelector)
	if !ok {
		log.WithField("patch", p.Name()).Warn("Could not find the HTML node for the name field's help text")
		return
	}
	help.SetHtml(nameGuidelines)
}

// SuggestItemName offers the item's category, singularized, as its name.
// When it can make a suggestion it also swaps the guidelines for a shorter
// alert.
type SuggestItemName struct {
	gate
}

func NewSuggestItemName() *SuggestItemName {
	return &SuggestItemName{gate: gate{pattern: "*/library/orgInventory/create*"}}
}

func (p *SuggestItemName) Name() string { return "suggest-item-name" }

func (p *SuggestItemName) Apply(doc *goquery.Document) {
	log := log.WithField("patch", p.Name())

	input, ok := dom.First(doc.Selection, "input[name=attribute_name]")
	if !ok {
		log.Debug("no name input")
		return
	}
	row, ok := dom.Closest(input, "div.row")
	if !ok {
		log.Warn("Could not find the row holding the name input")
		return
	}
	category, ok := dom.Text(doc.Selection, "span.caption-helper")
	if !ok || category == "" {
		log.Debug("no category to suggest from")
		return
	}
	help, ok := dom.First(doc.Selection, nameHelpSelector)
	if !ok {
		log.Warn("Could not find the HTML node for the name field's help text")
		return
	}
	if _, done := dom.First(doc.Selection, "button[data-suggested-name]"); done {
		return
	}

	suggested := SuggestName(category)

	btn := dom.Element("button",
		"class", "btn btn-primary",
		"style", "margin: 6px 0;",
		"type", "button",
		"data-suggested-name", suggested,
	)
	btn.AppendChild(dom.Element("i", "class", "fa fa-star", "style", "margin-right: 4px;"))
	btn.AppendChild(dom.TextNode(fmt.Sprintf(` Use "%s"`, suggested)))
	row.AfterNodes(btn)

	help.SetHtml(shortNameAlert)
}

// Accept does what clicking the suggestion button does: it copies the
// suggested name into the Name input. It reports whether there was a
// suggestion to accept.
func (p *SuggestItemName) Accept(doc *goquery.Document) bool {
	btn, ok := dom.First(doc.Selection, "button[data-suggested-name]")
	if !ok {
		return false
	}
	input, ok := dom.First(doc.Selection, "input[name=attribute_name]")
	if !ok {
		return false
	}
	input.SetAttr("value", btn.AttrOr("data-suggested-name", ""))
	return true
}

// SuggestName strips one trailing plural "s" from a category name.
func SuggestName(category string) string {
	return strings.TrimSuffix(category, "s")
}
