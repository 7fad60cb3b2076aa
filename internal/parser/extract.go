package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractLinks returns the absolute crawl candidates referenced by anchor
// tags in doc, in document order. Filtered hrefs are dropped, relative ones
// resolved against baseURL. Parsing is tolerant: malformed markup yields
// whatever anchors the parser recovers. Duplicates within a page are kept;
// the frontier's visited set is the place that dedups.
func ExtractLinks(doc, baseURL string) []string {
	root, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return nil
	}
	var links []string
	root.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href") // first href attribute per tag
		if ShouldIgnore(href) {
			return
		}
		if !IsAbsolute(href) {
			href = Resolve(baseURL, href)
		}
		links = append(links, href)
	})
	return links
}
