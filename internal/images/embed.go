package images

import (
	"fmt"
	"html"
	"strings"

	"autopress/internal/core"

	"github.com/PuerkitoBio/goquery"
)

const (
	// MarkerClass tags every pipeline-inserted in-content image. The embed
	// transform keys on it to stay idempotent across re-processing.
	MarkerClass = "ap-inline-image"

	// ClearfixClass clears float context after each wrapped image block so
	// floated figures cannot bleed into subsequent content.
	ClearfixClass = "ap-clearfix"

	figureClass = "ap-img-figure"
)

// alignmentClass maps the configured in-content alignment to the CSS class
// carried by the wrapping figure.
func alignmentClass(alignment string) string {
	switch alignment {
	case core.AlignAllLeft:
		return "ap-img-all-left"
	case core.AlignAllRight:
		return "ap-img-all-right"
	default:
		return "ap-img-center"
	}
}

// EmbedInContent inserts the given image URLs into the HTML body as tagged
// <img> markers wrapped in alignment-classed figures, spread evenly between
// paragraphs. The transform is idempotent: URLs already present as markers
// are never wrapped again, so re-running on processed HTML is a no-op.
func EmbedInContent(body string, urls []string, alignment string) (string, error) {
	if len(urls) == 0 {
		return body, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse article HTML: %w", err)
	}

	existing := make(map[string]bool)
	doc.Find("img." + MarkerClass).Each(func(i int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok {
			existing[src] = true
		}
	})

	var toInsert []string
	for _, url := range urls {
		if url != "" && !existing[url] {
			toInsert = append(toInsert, url)
			existing[url] = true
		}
	}

	if len(toInsert) > 0 {
		paragraphs := doc.Find("body > p")
		for i, url := range toInsert {
			markup := figureMarkup(url, alignment)
			if paragraphs.Length() == 0 {
				doc.Find("body").AppendHtml(markup)
				continue
			}
			// Spread images evenly through the article body.
			idx := (i + 1) * paragraphs.Length() / (len(toInsert) + 1)
			if idx >= paragraphs.Length() {
				idx = paragraphs.Length() - 1
			}
			paragraphs.Eq(idx).AfterHtml(markup)
		}
	}

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("failed to serialize article HTML: %w", err)
	}

	return out, nil
}

func figureMarkup(url, alignment string) string {
	escaped := html.EscapeString(url)
	return fmt.Sprintf(
		`<figure class="%s %s"><img class="%s" src="%s" alt=""/></figure><div class="%s"></div>`,
		figureClass, alignmentClass(alignment), MarkerClass, escaped, ClearfixClass,
	)
}
