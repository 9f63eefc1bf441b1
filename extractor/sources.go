package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

var (
	metaNameMatcher     = cascadia.MustCompile("meta[name]")
	metaPropertyMatcher = cascadia.MustCompile("meta[property]")
	titleMatcher        = cascadia.MustCompile("title")
	paragraphMatcher    = cascadia.MustCompile("p")
	hiddenMatcher       = cascadia.MustCompile("script, style, noscript, template")
)

// metaContent returns a source reading the content attribute of the first
// <meta> whose attr equals key (case-insensitively). A first match with an
// empty content yields "" rather than falling through to later matches.
func metaContent(name string, m goquery.Matcher, attr, key string) Source {
	return Source{
		Name: name,
		Get: func(p *page) string {
			sel := p.doc.FindMatcher(m).FilterFunction(func(_ int, s *goquery.Selection) bool {
				v, _ := s.Attr(attr)
				return strings.EqualFold(strings.TrimSpace(v), key)
			}).First()
			content, _ := sel.Attr("content")
			return content
		},
	}
}

// titleText reads the first <title> in the document.
func titleText() Source {
	return Source{
		Name: SourceTitle,
		Get: func(p *page) string {
			return collapseSpace(p.doc.FindMatcher(titleMatcher).First().Text())
		},
	}
}

// firstParagraph reads the visible text of the first <p> in document order.
// Only the first paragraph is considered, even when it is empty.
func firstParagraph() Source {
	return Source{
		Name: SourceParagraph,
		Get: func(p *page) string {
			para := p.doc.FindMatcher(paragraphMatcher).First()
			if para.Length() == 0 {
				return ""
			}
			visible := para.Clone()
			visible.FindMatcher(hiddenMatcher).Remove()
			return collapseSpace(visible.Text())
		},
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
