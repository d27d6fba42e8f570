package scraper

import (
	"fmt"
	"net/url"
	"strings"
)

// pageURL builds the navigation target for one listing page. Page 0
// gets the bare category path with its query stripped; later pages
// keep the full path and append the page query parameter.
func pageURL(baseURL, categoryPath string, pageIndex int) string {
	if pageIndex == 0 {
		bare, _, _ := strings.Cut(categoryPath, "?")
		return baseURL + bare
	}
	return fmt.Sprintf("%s%s&page=%d", baseURL, categoryPath, pageIndex)
}

// absoluteURL resolves an extracted image or link against the store's
// base URL. Values that are already absolute pass through untouched.
func absoluteURL(baseURL, value string) string {
	if value == "" {
		return ""
	}
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		return value
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return value
	}
	rel, err := url.Parse(value)
	if err != nil {
		return value
	}
	return base.ResolveReference(rel).String()
}
