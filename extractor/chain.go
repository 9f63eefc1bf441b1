package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// page is what a Source inspects: the parsed markup and the requested URL.
type page struct {
	doc *goquery.Document
	url string
}

// Source is one candidate in a fallback chain. Get returns "" when the page
// does not provide a value.
type Source struct {
	Name string
	Get  func(p *page) string
}

// Chain is an ordered list of sources. Order is significant: the first
// source yielding a non-blank value wins and later sources are not consulted.
type Chain []Source

// First evaluates the chain lazily and returns the winning value and the
// name of the source that produced it. Both are empty if nothing matched.
func (c Chain) First(p *page) (value, source string) {
	for _, s := range c {
		if v := strings.TrimSpace(s.Get(p)); v != "" {
			return v, s.Name
		}
	}
	return "", ""
}

// constant returns a source that always yields v.
func constant(name, v string) Source {
	return Source{Name: name, Get: func(*page) string { return v }}
}
