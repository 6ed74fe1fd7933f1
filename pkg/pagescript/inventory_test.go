package pagescript

import (
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationSelect(t *testing.T) {
	doc := loadFixture(t, "inventory_create.html")
	vocab := DefaultVocabulary()
	NewLocationSelect(vocab).Apply(doc)

	assert.Equal(t, 0, doc.Find("input#attribute_location_code").Length())

	sel := doc.Find("div.input-wrapper > select#attribute_location_code")
	require.Equal(t, 1, sel.Length())
	assert.Equal(t, "attribute_location_code", sel.AttrOr("name", ""))
	assert.True(t, sel.HasClass("form-control"))
	_, required := sel.Attr("required")
	assert.True(t, required)

	first := sel.Children().First()
	assert.Equal(t, "option", first.Nodes[0].Data)
	assert.Equal(t, "", first.AttrOr("value", "x"))
	_, disabled := first.Attr("disabled")
	_, selected := first.Attr("selected")
	assert.True(t, disabled)
	assert.True(t, selected)

	groups := sel.Find("optgroup")
	require.Equal(t, len(vocab), groups.Length())
	assert.Equal(t, "Inventory Room Shelves", groups.First().AttrOr("label", ""))
	assert.Equal(t, vocab.Len(), sel.Find("optgroup option").Length())
	assert.Equal(t, "E 1.35", sel.Find(`option[value="E 1.35"]`).Text())

	doc.Find(`button[data-attribute="location_code"]`).Each(func(_ int, b *goquery.Selection) {
		assert.Contains(t, b.Parent().AttrOr("style", ""), "display: none;")
	})
	assert.Equal(t, "margin-top: 4px; display: none;",
		doc.Find(`div.visible-xs`).AttrOr("style", ""))

	assert.Equal(t, "Maintenance Plan", doc.Find("div.row-location_code").AttrOr("data-attribute-type", ""))
	assert.Equal(t, "Single-line", doc.Find("div.row-name").AttrOr("data-attribute-type", ""))
}

func TestLocationSelectIsSafeToRepeat(t *testing.T) {
	doc := loadFixture(t, "inventory_create.html")
	p := NewLocationSelect(DefaultVocabulary())
	p.Apply(doc)
	p.Apply(doc)
	assert.Equal(t, 1, doc.Find("select#attribute_location_code").Length())
}

func TestLocationSelectLeavesUnexpectedMarkupAlone(t *testing.T) {
	doc := loadHTML(t, `<div><button data-attribute="location_code">Use default</button></div>`)
	before, _ := doc.Html()

	NewLocationSelect(DefaultVocabulary()).Apply(doc)

	after, _ := doc.Html()
	assert.Equal(t, before, after)
}

func TestNameGuidelines(t *testing.T) {
	doc := loadFixture(t, "inventory_create.html")
	NewNameGuidelines().Apply(doc)

	help := doc.Find("div.row-name div.help-block")
	assert.Contains(t, help.Text(), "Please use title case and be concise")
	assert.Equal(t, "https://en.wikipedia.org/wiki/Title_case", help.Find("a").AttrOr("href", ""))

	// other help blocks are untouched
	doc = loadHTML(t, `<div class="form-group"><input id="other"><div class="help-block">keep</div></div>`)
	NewNameGuidelines().Apply(doc)
	assert.Equal(t, "keep", doc.Find("div.help-block").Text())
}

func TestSuggestItemName(t *testing.T) {
	doc := loadFixture(t, "inventory_create.html")
	p := NewSuggestItemName()
	p.Apply(doc)

	btn := doc.Find("div.row-name + button")
	require.Equal(t, 1, btn.Length())
	assert.Equal(t, ` Use "Drill"`, btn.Text())
	assert.Equal(t, "button", btn.AttrOr("type", ""))
	assert.True(t, btn.Find("i").HasClass("fa-star"))
	assert.Equal(t, 1, doc.Find("div.row-name div.help-block div.alert-info").Length())

	p.Apply(doc)
	assert.Equal(t, 1, doc.Find("button[data-suggested-name]").Length())

	require.True(t, p.Accept(doc))
	assert.Equal(t, "Drill", doc.Find("input#attribute_name").AttrOr("value", ""))
}

func TestSuggestItemNameWithoutCategoryKeepsGuidelines(t *testing.T) {
	doc := loadFixture(t, "inventory_create.html")
	doc.Find("span.caption-helper").Remove()

	NewSet(NewNameGuidelines(), NewSuggestItemName()).Apply("/library/orgInventory/create", doc)

	assert.Equal(t, 0, doc.Find("button[data-suggested-name]").Length())
	assert.Contains(t, doc.Find("div.row-name div.help-block").Text(), "title case")
	assert.False(t, NewSuggestItemName().Accept(doc))
}

func TestSuggestItemNameMatchesPathsContainingCreate(t *testing.T) {
	p := NewSuggestItemName()
	assert.True(t, p.Matches("/library/orgInventory/create"))
	assert.True(t, p.Matches("/library/orgInventory/createCopy"))
	assert.False(t, p.Matches("/library/orgInventory/edit"))
	assert.False(t, NewNameGuidelines().Matches("/library/orgInventory/createCopy"))
}

func TestSuggestName(t *testing.T) {
	assert.Equal(t, "Drill", SuggestName("Drills"))
	assert.Equal(t, "Glass", SuggestName("Glasss"))
	assert.Equal(t, "Sewing Machine", SuggestName("Sewing Machine"))
	assert.Equal(t, "", SuggestName(""))
}
