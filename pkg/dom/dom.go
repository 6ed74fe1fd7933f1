// Package dom wraps goquery lookups in comma-ok form so callers can bail
// out early when MyTurn's markup does not look the way it used to.
package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// First returns the first element under root matching selector.
func First(root *goquery.Selection, selector string) (*goquery.Selection, bool) {
	sel := root.Find(selector).First()
	return sel, sel.Length() > 0
}

// Closest returns the nearest ancestor of sel (or sel itself) matching
// selector.
func Closest(sel *goquery.Selection, selector string) (*goquery.Selection, bool) {
	c := sel.Closest(selector)
	return c, c.Length() > 0
}

// Parent returns the parent element of sel.
func Parent(sel *goquery.Selection) (*goquery.Selection, bool) {
	p := sel.Parent()
	return p, p.Length() > 0
}

// Text returns the trimmed text of the first element matching selector.
func Text(root *goquery.Selection, selector string) (string, bool) {
	sel, ok := First(root, selector)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(sel.Text()), true
}

// FirstElementChild returns the first child element of sel.
func FirstElementChild(sel *goquery.Selection) (*goquery.Selection, bool) {
	c := sel.Children().First()
	return c, c.Length() > 0
}

// FirstTextChild returns the first direct text node child of sel.
func FirstTextChild(sel *goquery.Selection) (*html.Node, bool) {
	if sel.Length() == 0 {
		return nil, false
	}
	for n := sel.Get(0).FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.TextNode {
			return n, true
		}
	}
	return nil, false
}

// HasOwnText reports whether one of sel's direct text children is exactly
// text.
func HasOwnText(sel *goquery.Selection, text string) bool {
	for _, n := range sel.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode && c.Data == text {
				return true
			}
		}
	}
	return false
}

// Element builds a detached element node. attrs alternate key and value.
func Element(tag string, attrs ...string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

// TextNode builds a detached text node.
func TextNode(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

// Hide appends display:none to the inline style of every element in sel.
func Hide(sel *goquery.Selection) {
	sel.Each(func(_ int, s *goquery.Selection) {
		style := strings.TrimSpace(s.AttrOr("style", ""))
		if style != "" && !strings.HasSuffix(style, ";") {
			style += ";"
		}
		if style != "" {
			style += " "
		}
		s.SetAttr("style", style+"display: none;")
	})
}

// SwapClass removes remove and adds each of add on every element in sel,
// leaving the class list single-spaced.
func SwapClass(sel *goquery.Selection, remove string, add ...string) {
	sel.Each(func(_ int, s *goquery.Selection) {
		classes := lo.Without(strings.Fields(s.AttrOr("class", "")), remove)
		for _, c := range add {
			if !lo.Contains(classes, c) {
				classes = append(classes, c)
			}
		}
		s.SetAttr("class", strings.Join(classes, " "))
	})
}
