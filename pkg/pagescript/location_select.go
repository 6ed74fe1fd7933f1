package pagescript

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/sustainablecapitolhill/myturn-hacks/pkg/dom"
)

// LocationSelect limits the item form's free-text Location Code field to
// the agreed vocabulary by swapping it for a drop-down.
type LocationSelect struct {
	gate
	vocab Vocabulary
}

func NewLocationSelect(vocab Vocabulary) *LocationSelect {
	return &LocationSelect{
		gate:  gate{pattern: "/library/orgInventory/create"},
		vocab: vocab,
	}
}

func (p *LocationSelect) Name() string { return "add-item-location-select" }

func (p *LocationSelect) Apply(doc *goquery.Document) {
	log := log.WithField("patch", p.Name())

	input, ok := dom.First(doc.Selection, "input#attribute_location_code")
	if !ok {
		log.Warn("Could not find the location code text input")
		return
	}
	container, ok := dom.Parent(input)
	if !ok {
		log.Warn("Could not find the location code input container")
		return
	}

	// one "use default" button per viewport size
	dom.Hide(doc.Find(`button[data-attribute="location_code"]`).Parent())

	input.Remove()
	container.AppendNodes(p.selectNode())

	// MyTurn's form code only reads select values for "Maintenance Plan"
	// typed attributes, so the row has to claim to be one.
	row, ok := dom.Closest(container, "div.row-location_code")
	if !ok {
		log.Warn("Could not find the location code row; the selection will not be submitted")
		return
	}
	row.SetAttr("data-attribute-type", "Maintenance Plan")
}

func (p *LocationSelect) selectNode() *html.Node {
	sel := dom.Element("select",
		"id", "attribute_location_code",
		"name", "attribute_location_code",
		"class", "form-control",
		"required", "",
	)
	sel.AppendChild(dom.Element("option", "value", "", "disabled", "", "selected", ""))

	for _, area := range p.vocab {
		group := dom.Element("optgroup", "label", area.Name)
		for _, loc := range area.Locations {
			opt := dom.Element("option", "value", loc)
			opt.AppendChild(dom.TextNode(loc))
			group.AppendChild(opt)
		}
		sel.AppendChild(group)
	}
	return sel
}
