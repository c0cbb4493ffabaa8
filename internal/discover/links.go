// Package discover finds same-domain links and locates the most
// menu-like page on a restaurant website.
package discover

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Extensions that never lead to a crawlable document.
var ignoredExtensions = []string{
	".jpg", ".jpeg", ".png", ".gif", ".bmp", ".svg", ".webp",
	".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
	".zip", ".rar", ".7z", ".tar", ".gz", ".mp3", ".mp4", ".avi",
	".mov", ".wmv", ".flv", ".mkv", ".ico",
}

// Path fragments belonging to CMS internals rather than site content.
var ignoredPathParts = []string{"/wp-content/", "/wp-admin/"}

// Links extracts every same-domain hyperlink from the page body fetched
// at pageURL, normalized and deduplicated. The result preserves
// first-discovered document order so downstream max-score selection and
// crawl traversal are deterministic.
func Links(pageURL string, body []byte) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	seen := make(map[string]struct{})
	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		if href == "" ||
			strings.HasPrefix(href, "javascript:") ||
			strings.HasPrefix(href, "mailto:") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			return
		}
		if !strings.EqualFold(abs.Hostname(), base.Hostname()) {
			return
		}
		lowerPath := strings.ToLower(abs.Path)
		for _, part := range ignoredPathParts {
			if strings.Contains(lowerPath, part) {
				return
			}
		}
		for _, ext := range ignoredExtensions {
			if strings.HasSuffix(lowerPath, ext) {
				return
			}
		}
		norm := NormalizeURL(abs)
		if _, dup := seen[norm]; dup {
			return
		}
		seen[norm] = struct{}{}
		links = append(links, norm)
	})
	return links, nil
}

// NormalizeURL reduces a URL to scheme+host+path with the query string,
// fragment and trailing slash stripped.
func NormalizeURL(u *url.URL) string {
	return strings.TrimRight(fmt.Sprintf("%s://%s%s", u.Scheme, u.Host, u.Path), "/")
}
