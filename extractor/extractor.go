// Package extractor derives a brand name and a description from page markup
// using two ordered fallback chains.
package extractor

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/brandscan/models"
)

// NoDescription is returned when no description source matches.
const NoDescription = "No description found"

// Source names, reported in Result for diagnostics.
const (
	SourceSiteName      = "og:site_name"
	SourceTitle         = "title"
	SourceURL           = "url"
	SourceMetaDesc      = "meta:description"
	SourceOGDescription = "og:description"
	SourceParagraph     = "paragraph"
	SourceSentinel      = "sentinel"
)

// Result is the outcome of extraction.
type Result struct {
	BrandName         string
	Description       string
	BrandSource       string
	DescriptionSource string
}

// brandChain: site-name meta → <title> → the requested URL.
func brandChain(url string) Chain {
	return Chain{
		metaContent(SourceSiteName, metaPropertyMatcher, "property", "og:site_name"),
		titleText(),
		constant(SourceURL, url),
	}
}

// descriptionChain: description meta → og:description meta → first <p> → sentinel.
var descriptionChain = Chain{
	metaContent(SourceMetaDesc, metaNameMatcher, "name", "description"),
	metaContent(SourceOGDescription, metaPropertyMatcher, "property", "og:description"),
	firstParagraph(),
	constant(SourceSentinel, NoDescription),
}

// Extract parses the fetched markup and runs both chains. The brand chain
// falls back to doc.URL, so it always yields a value for a non-blank URL.
func Extract(doc *models.FetchedDocument) (*Result, error) {
	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(doc.HTML))
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeExtraction, "failed to parse document", err)
	}

	p := &page{doc: parsed, url: doc.URL}

	res := &Result{}
	res.BrandName, res.BrandSource = brandChain(doc.URL).First(p)
	res.Description, res.DescriptionSource = descriptionChain.First(p)

	slog.Debug("extractor: chains resolved",
		"url", doc.URL,
		"brandSource", res.BrandSource,
		"descriptionSource", res.DescriptionSource,
	)

	return res, nil
}

// ExtractHTML is a convenience wrapper for callers holding raw markup.
func ExtractHTML(rawHTML, sourceURL string) (*Result, error) {
	return Extract(&models.FetchedDocument{URL: sourceURL, HTML: rawHTML})
}
