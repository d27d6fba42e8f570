package sites

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Selectors holds the CSS selectors of one store. Only ProductCard,
// Title and Price are mandatory; an empty selector means the site does
// not expose that field and the extracted value stays null.
type Selectors struct {
	ProductCard               string `json:"productCard"`
	Title                     string `json:"title"`
	Price                     string `json:"price"`
	DiscountPrice             string `json:"discountPrice,omitempty"`
	DiscountPercentage        string `json:"discountPercentage,omitempty"`
	SpecialDiscountPrice      string `json:"specialDiscountPrice,omitempty"`
	SpecialDiscountPercentage string `json:"specialDiscountPercentage,omitempty"`
	Image                     string `json:"image,omitempty"`
	Link                      string `json:"link,omitempty"`
	NextPage                  string `json:"nextPage,omitempty"`
	FirstVisitModal           string `json:"firstVisitModal,omitempty"`
}

// Category maps a human-readable category name to its URL path on the
// store. Categories are scraped in slice order.
type Category struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// SiteConfig is the full, read-only description of one store. The
// driver never mutates it; per-store behavior differences (text-button
// pagination, infinite scroll, none) are expressed as data here rather
// than per-site code.
type SiteConfig struct {
	Name         string     `json:"name"`
	BaseURL      string     `json:"baseUrl"`
	MaxPages     int        `json:"maxPages"`
	Categories   []Category `json:"categories"`
	NextPageText string     `json:"nextPageText,omitempty"`
	AutoScroll   bool       `json:"autoScroll,omitempty"`
	Selectors    Selectors  `json:"selectors"`
}

const defaultMaxPages = 10

// Validate checks the fields the driver cannot work without.
func (c SiteConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("site config missing name")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("site %q: baseUrl must be an absolute http(s) URL, got %q", c.Name, c.BaseURL)
	}
	if len(c.Categories) == 0 {
		return fmt.Errorf("site %q: no categories configured", c.Name)
	}
	if c.Selectors.ProductCard == "" || c.Selectors.Title == "" || c.Selectors.Price == "" {
		return fmt.Errorf("site %q: productCard, title and price selectors are required", c.Name)
	}
	return nil
}

// LoadFile reads site configurations from a JSON file, applies
// defaults and validates each entry.
func LoadFile(path string) ([]SiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read site config file %s: %w", path, err)
	}

	var configs []SiteConfig
	if err := json.Unmarshal(data, &configs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal site config JSON from %s: %w", path, err)
	}

	for i := range configs {
		if configs[i].MaxPages <= 0 {
			configs[i].MaxPages = defaultMaxPages
		}
		if err := configs[i].Validate(); err != nil {
			return nil, err
		}
	}
	return configs, nil
}
