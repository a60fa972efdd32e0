package style

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/matzehuels/overlay/pkg/dom"
)

// toNode mirrors el and its ancestors as html nodes so descendant and child
// combinators can match.
func toNode(el *dom.Element) *html.Node {
	var parent *html.Node
	if p := el.Parent(); p != nil {
		parent = toNode(p)
	}
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     strings.ToLower(el.Tag()),
		DataAtom: atom.Lookup([]byte(strings.ToLower(el.Tag()))),
		Parent:   parent,
	}
	if parent != nil {
		parent.FirstChild = n
		parent.LastChild = n
	}
	if id := el.ID(); id != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "id", Val: id})
	}
	if classes := el.ClassNames(); len(classes) > 0 {
		n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: strings.Join(classes, " ")})
	}
	for k, v := range el.Attributes() {
		if k == "id" || k == "class" {
			continue
		}
		n.Attr = append(n.Attr, html.Attribute{Key: k, Val: v})
	}
	return n
}
