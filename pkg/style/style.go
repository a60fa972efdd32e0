// Package style computes element margins from CSS.
//
// A [Stylesheet] is parsed with douceur and its selectors compiled with
// cascadia. Margins are resolved in cascade order: stylesheet rules by
// specificity then source order, the element's style attribute after them,
// and !important declarations on top in the same order.
//
// Only the margin properties are interpreted; everything else in the sheet
// is parsed and ignored.
package style

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"

	"github.com/matzehuels/overlay/pkg/dom"
	"github.com/matzehuels/overlay/pkg/geom"
)

// DefaultRootFontSize resolves rem and em lengths.
const DefaultRootFontSize = 16

type rule struct {
	sel   cascadia.Sel
	order int
	decls []*css.Declaration
}

// Stylesheet is a parsed set of CSS rules.
type Stylesheet struct {
	rules []rule

	// RootFontSize is the pixel size of 1rem and 1em.
	RootFontSize float64

	// Skipped lists selectors that could not be compiled, such as
	// pseudo-elements. Their rules never match.
	Skipped []string
}

// Parse parses CSS text. At-rules are ignored.
func Parse(text string) (*Stylesheet, error) {
	parsed, err := parser.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse stylesheet: %w", err)
	}
	s := &Stylesheet{RootFontSize: DefaultRootFontSize}
	for _, r := range parsed.Rules {
		if r.Kind != css.QualifiedRule {
			continue
		}
		for _, raw := range r.Selectors {
			sel, err := cascadia.Parse(raw)
			if err != nil {
				s.Skipped = append(s.Skipped, raw)
				continue
			}
			s.rules = append(s.rules, rule{sel: sel, order: len(s.rules), decls: r.Declarations})
		}
	}
	return s, nil
}

// Len returns the number of compiled selector rules.
func (s *Stylesheet) Len() int { return len(s.rules) }

type matched struct {
	decl        *css.Declaration
	important   bool
	inline      bool
	specificity cascadia.Specificity
	order       int
}

// Margins returns the computed margins of el. A nil stylesheet only applies
// the element's style attribute.
func (s *Stylesheet) Margins(el *dom.Element) (geom.Edges, error) {
	var decls []matched
	if s != nil {
		node := toNode(el)
		for _, r := range s.rules {
			if !r.sel.Match(node) {
				continue
			}
			for _, d := range r.decls {
				decls = append(decls, matched{decl: d, important: d.Important, specificity: r.sel.Specificity(), order: r.order})
			}
		}
	}
	if attr, ok := el.Attribute("style"); ok && strings.TrimSpace(attr) != "" {
		// douceur drops the value of an unterminated last declaration.
		attr = strings.TrimSpace(attr)
		if !strings.HasSuffix(attr, ";") {
			attr += ";"
		}
		inline, err := parser.ParseDeclarations(attr)
		if err != nil {
			return geom.Edges{}, fmt.Errorf("parse style attribute: %w", err)
		}
		for i, d := range inline {
			decls = append(decls, matched{decl: d, important: d.Important, inline: true, order: i})
		}
	}

	slices.SortStableFunc(decls, compareCascade)

	fontSize := float64(DefaultRootFontSize)
	if s != nil && s.RootFontSize > 0 {
		fontSize = s.RootFontSize
	}
	var m geom.Edges
	for _, d := range decls {
		if err := apply(&m, d.decl, fontSize); err != nil {
			return geom.Edges{}, err
		}
	}
	return m, nil
}

// compareCascade orders declarations from lowest to highest precedence.
func compareCascade(a, b matched) int {
	if a.important != b.important {
		return boolCmp(a.important, b.important)
	}
	if a.inline != b.inline {
		return boolCmp(a.inline, b.inline)
	}
	if a.specificity != b.specificity {
		if a.specificity.Less(b.specificity) {
			return -1
		}
		return 1
	}
	return cmp.Compare(a.order, b.order)
}

func boolCmp(a, b bool) int {
	if !a && b {
		return -1
	}
	if a && !b {
		return 1
	}
	return 0
}
