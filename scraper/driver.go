// Package scraper implements the generic pagination-and-extraction
// driver. One Driver, parameterized by an immutable SiteConfig, covers
// every store: per-site differences in pagination (text button, "show
// more" infinite scroll, none) are a decision table over configuration,
// not per-site code.
package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"preciotracker/browser"
	"preciotracker/models"
	"preciotracker/pricing"
	"preciotracker/sites"
)

// ResultWriter persists one finished category. Implementations must
// tolerate an empty product slice.
type ResultWriter interface {
	Save(ctx context.Context, store, category string, products []models.Product) error
}

// Driver walks a store's categories one at a time: navigate, wait for
// content, extract, reconcile prices, detect the next page, repeat
// until the pagination stops or the page cap is hit, then persist.
type Driver struct {
	cfg     sites.SiteConfig
	session browser.Session
	writer  ResultWriter
	log     *logrus.Entry

	settleDelay     time.Duration
	selectorTimeout time.Duration
	modalTimeout    time.Duration
}

func New(cfg sites.SiteConfig, session browser.Session, writer ResultWriter) *Driver {
	return &Driver{
		cfg:             cfg,
		session:         session,
		writer:          writer,
		log:             logrus.WithField("site", cfg.Name),
		settleDelay:     2 * time.Second,
		selectorTimeout: 4 * time.Second,
		modalTimeout:    2 * time.Second,
	}
}

// Exec scrapes every configured category in order. A failure inside
// one category never discards what that category accumulated, and
// never prevents the remaining categories from running.
func (d *Driver) Exec(ctx context.Context) error {
	for _, cat := range d.cfg.Categories {
		if err := ctx.Err(); err != nil {
			return err
		}

		clog := d.log.WithField("category", cat.Name)
		clog.Info("Scraping category")

		products, err := d.scrapeCategory(ctx, clog, cat)
		if err != nil {
			clog.WithError(err).Error("Category scrape aborted; persisting what was collected")
		}
		clog.WithField("total", len(products)).Info("Category finished")

		if err := d.writer.Save(ctx, d.cfg.Name, cat.Name, products); err != nil {
			clog.WithError(err).Error("Failed to persist category results")
		}
	}
	return nil
}

func (d *Driver) scrapeCategory(ctx context.Context, clog *logrus.Entry, cat sites.Category) ([]models.Product, error) {
	page, err := d.session.NewPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening page for category %s: %w", cat.Name, err)
	}
	defer page.Close()

	products := []models.Product{}
	for pageIndex := 0; pageIndex < d.cfg.MaxPages; pageIndex++ {
		if ctx.Err() != nil {
			clog.Warn("Run cancelled; stopping pagination")
			break
		}

		plog := clog.WithField("page", pageIndex)
		target := pageURL(d.cfg.BaseURL, cat.Path, pageIndex)
		plog.WithField("url", target).Info("Navigating")

		if err := page.Navigate(ctx, target); err != nil {
			plog.WithError(err).Warn("Navigation failed; stopping pagination")
			break
		}
		if err := sleepCtx(ctx, d.settleDelay); err != nil {
			break
		}
		d.dismissFirstVisitModal(ctx, plog, page)

		if err := page.WaitVisible(ctx, d.cfg.Selectors.ProductCard, d.selectorTimeout); err != nil {
			plog.WithError(err).Warn("Product cards never appeared; stopping pagination")
			break
		}

		doc, err := d.snapshot(ctx, page)
		if err != nil {
			plog.WithError(err).Warn("Could not snapshot page; stopping pagination")
			break
		}

		raws := d.extractProducts(doc)
		if len(raws) == 0 {
			plog.Info("No more products found; stopping pagination")
			break
		}
		plog.WithField("count", len(raws)).Info("Extracted products")

		for _, raw := range raws {
			products = append(products, d.buildProduct(raw))
		}

		if !d.hasNextPage(ctx, plog, page, doc) {
			break
		}
	}
	return products, nil
}

func (d *Driver) snapshot(ctx context.Context, page browser.Page) (*goquery.Document, error) {
	html, err := page.HTML(ctx)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// dismissFirstVisitModal closes the interstitial some stores show on a
// fresh session. Not seeing the modal is the normal case; failing to
// close it is logged and ignored.
func (d *Driver) dismissFirstVisitModal(ctx context.Context, plog *logrus.Entry, page browser.Page) {
	modal := d.cfg.Selectors.FirstVisitModal
	if modal == "" {
		return
	}
	if err := page.WaitVisible(ctx, modal, d.modalTimeout); err != nil {
		return
	}
	if err := page.Click(ctx, modal); err != nil {
		plog.WithError(err).Debug("Could not dismiss first-visit modal")
	}
}

// extractProducts pulls the configured fields off every product card
// in the snapshot. Unconfigured or unmatched selectors yield empty
// fields, never errors.
func (d *Driver) extractProducts(doc *goquery.Document) []models.RawProduct {
	sel := d.cfg.Selectors
	var raws []models.RawProduct
	doc.Find(sel.ProductCard).Each(func(_ int, card *goquery.Selection) {
		raws = append(raws, models.RawProduct{
			Title:                     fieldText(card, sel.Title),
			FinalPrice:                fieldText(card, sel.Price),
			DiscountPrice:             fieldText(card, sel.DiscountPrice),
			DiscountPercentage:        fieldText(card, sel.DiscountPercentage),
			SpecialDiscountPrice:      fieldText(card, sel.SpecialDiscountPrice),
			SpecialDiscountPercentage: fieldText(card, sel.SpecialDiscountPercentage),
			Image:                     fieldAttr(card, sel.Image, "src"),
			Link:                      fieldAttr(card, sel.Link, "href"),
		})
	})
	return raws
}

func (d *Driver) buildProduct(raw models.RawProduct) models.Product {
	breakdown := pricing.CalculatePriceAndDiscounts(pricing.PriceTexts{
		FinalPrice:                raw.FinalPrice,
		DiscountPrice:             raw.DiscountPrice,
		DiscountPercentage:        raw.DiscountPercentage,
		SpecialDiscountPrice:      raw.SpecialDiscountPrice,
		SpecialDiscountPercentage: raw.SpecialDiscountPercentage,
	})

	product := models.Product{
		Title:                     optional(raw.Title),
		Image:                     optional(absoluteURL(d.cfg.BaseURL, raw.Image)),
		Link:                      optional(absoluteURL(d.cfg.BaseURL, raw.Link)),
		OriginalPrice:             breakdown.OriginalPrice,
		FinalPrice:                breakdown.FinalPrice,
		SpecialDiscountPrice:      breakdown.SpecialDiscountPrice,
		DiscountPercentage:        breakdown.DiscountPercentage,
		SpecialDiscountPercentage: breakdown.SpecialDiscountPercentage,
	}

	d.log.WithFields(logrus.Fields{
		"title":         raw.Title,
		"finalPrice":    product.FinalPrice,
		"originalPrice": product.OriginalPrice,
	}).Debug("Processed product")
	return product
}

// hasNextPage is the pagination decision table. With nothing
// configured a site gets a single page. AutoScroll sites get a bounded
// scroll to the bottom first so lazy-loaded controls render, then the
// DOM is re-snapshotted before checking.
func (d *Driver) hasNextPage(ctx context.Context, plog *logrus.Entry, page browser.Page, doc *goquery.Document) bool {
	text := d.cfg.NextPageText
	selector := d.cfg.Selectors.NextPage
	if text == "" && selector == "" {
		return false
	}

	if d.cfg.AutoScroll {
		if err := page.ScrollToBottom(ctx); err != nil {
			plog.WithError(err).Debug("Auto-scroll failed")
		}
		if fresh, err := d.snapshot(ctx, page); err == nil {
			doc = fresh
		}
	}

	if text != "" {
		scope := selector
		if scope == "" {
			scope = "button"
		}
		found := false
		doc.Find(scope).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if strings.EqualFold(strings.TrimSpace(s.Text()), text) {
				found = true
				return false
			}
			if label, ok := s.Attr("aria-label"); ok && strings.EqualFold(strings.TrimSpace(label), text) {
				found = true
				return false
			}
			return true
		})
		if found {
			plog.WithField("button", text).Info("Next-page control found; loading more products")
		} else {
			plog.WithField("button", text).Info("Next-page control not found; stopping pagination")
		}
		return found
	}

	return doc.Find(selector).Length() > 0
}

func fieldText(card *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return strings.TrimSpace(card.Find(selector).First().Text())
}

func fieldAttr(card *goquery.Selection, selector, attr string) string {
	if selector == "" {
		return ""
	}
	return strings.TrimSpace(card.Find(selector).First().AttrOr(attr, ""))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
