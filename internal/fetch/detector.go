package fetch

import (
	"bytes"

	"github.com/PuerkitoBio/goquery"
)

// HeuristicDetector decides whether a fetched page needs JavaScript
// rendering before its links and text are usable.
type HeuristicDetector struct {
	minHTMLBytes int
	keywords     [][]byte
}

// Shell markers typical of single-page restaurant site builders.
var defaultShellKeywords = []string{
	"you need to enable javascript",
	"window.__nuxt__",
	"id=\"root\"></div>",
	"id=\"app\"></div>",
}

// NewHeuristicDetector constructs a detector with the configured byte
// threshold. Zero disables the size check.
func NewHeuristicDetector(minBytes int) *HeuristicDetector {
	keywords := make([][]byte, 0, len(defaultShellKeywords))
	for _, kw := range defaultShellKeywords {
		keywords = append(keywords, []byte(kw))
	}
	return &HeuristicDetector{
		minHTMLBytes: minBytes,
		keywords:     keywords,
	}
}

// NeedsJS inspects the page for signals that indicate JS rendering is
// required: a suspiciously small body, a known shell marker, or a
// document with no anchors at all.
func (d *HeuristicDetector) NeedsJS(page Page) bool {
	if d == nil {
		return false
	}
	if d.minHTMLBytes > 0 && len(page.Body) < d.minHTMLBytes {
		return true
	}
	lower := bytes.ToLower(page.Body)
	for _, kw := range d.keywords {
		if bytes.Contains(lower, kw) {
			return true
		}
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return true
	}
	return doc.Find("a[href]").Length() == 0
}
