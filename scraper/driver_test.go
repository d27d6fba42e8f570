package scraper

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"preciotracker/browser"
	"preciotracker/models"
	"preciotracker/sites"
)

// fakePage serves scripted HTML snapshots keyed by navigation order.
type fakePage struct {
	htmls    []string
	waitErrs []error
	navs     []string
	scrolls  int
	closed   bool
	cur      int
}

func (p *fakePage) Navigate(ctx context.Context, url string) error {
	p.navs = append(p.navs, url)
	p.cur = len(p.navs) - 1
	return nil
}

func (p *fakePage) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	if p.cur < len(p.waitErrs) {
		return p.waitErrs[p.cur]
	}
	return nil
}

func (p *fakePage) Click(ctx context.Context, selector string) error { return nil }

func (p *fakePage) HTML(ctx context.Context) (string, error) {
	i := p.cur
	if i >= len(p.htmls) {
		i = len(p.htmls) - 1
	}
	return p.htmls[i], nil
}

func (p *fakePage) ScrollToBottom(ctx context.Context) error {
	p.scrolls++
	return nil
}

func (p *fakePage) Close() error {
	p.closed = true
	return nil
}

type fakeSession struct {
	page *fakePage
}

func (s *fakeSession) NewPage(ctx context.Context) (browser.Page, error) { return s.page, nil }
func (s *fakeSession) Close() error                                      { return nil }

type savedCategory struct {
	store    string
	category string
	products []models.Product
}

type fakeWriter struct {
	saves []savedCategory
}

func (w *fakeWriter) Save(ctx context.Context, store, category string, products []models.Product) error {
	w.saves = append(w.saves, savedCategory{store: store, category: category, products: products})
	return nil
}

func testConfig(maxPages int, nextPageText, nextPageSelector string) sites.SiteConfig {
	return sites.SiteConfig{
		Name:         "teststore",
		BaseURL:      "https://shop.example",
		MaxPages:     maxPages,
		Categories:   []sites.Category{{Name: "iphone", Path: "/iphone?sort=price"}},
		NextPageText: nextPageText,
		Selectors: sites.Selectors{
			ProductCard:   ".card",
			Title:         ".title",
			Price:         ".price",
			DiscountPrice: ".old-price",
			Image:         "img",
			Link:          "a",
			NextPage:      nextPageSelector,
		},
	}
}

func card(title, price, oldPrice string) string {
	var b strings.Builder
	b.WriteString(`<div class="card">`)
	if title != "" {
		b.WriteString(`<span class="title">` + title + `</span>`)
	}
	if price != "" {
		b.WriteString(`<span class="price">` + price + `</span>`)
	}
	if oldPrice != "" {
		b.WriteString(`<span class="old-price">` + oldPrice + `</span>`)
	}
	b.WriteString(`<a href="/p/item"></a><img src="/img/item.jpg"/></div>`)
	return b.String()
}

func listing(extra string, cards ...string) string {
	return `<html><body><main>` + strings.Join(cards, "") + `</main>` + extra + `</body></html>`
}

func newTestDriver(cfg sites.SiteConfig, page *fakePage, writer *fakeWriter) *Driver {
	d := New(cfg, &fakeSession{page: page}, writer)
	d.settleDelay = 0
	return d
}

// An empty first page still attempts exactly one load and still hands
// the writer an empty slice.
func TestDriver_EmptyFirstPage(t *testing.T) {
	page := &fakePage{htmls: []string{listing("")}}
	writer := &fakeWriter{}

	err := newTestDriver(testConfig(5, "siguiente", ""), page, writer).Exec(context.Background())
	require.NoError(t, err)

	assert.Len(t, page.navs, 1)
	require.Len(t, writer.saves, 1)
	assert.Equal(t, "teststore", writer.saves[0].store)
	assert.Equal(t, "iphone", writer.saves[0].category)
	assert.Empty(t, writer.saves[0].products)
}

// A wait timeout on a later page keeps the earlier pages' records.
func TestDriver_TimeoutKeepsAccumulatedPages(t *testing.T) {
	next := `<button>Siguiente</button>`
	page := &fakePage{
		htmls:    []string{listing(next, card("iPhone 15", "$ 4.599.000", "")), listing(next)},
		waitErrs: []error{nil, errors.New("waiting for selector timed out")},
	}
	writer := &fakeWriter{}

	err := newTestDriver(testConfig(5, "siguiente", ""), page, writer).Exec(context.Background())
	require.NoError(t, err)

	assert.Len(t, page.navs, 2)
	require.Len(t, writer.saves, 1)
	assert.Len(t, writer.saves[0].products, 1, "page 0's product survives the page 1 timeout")
}

// With a next-page control always present, exactly maxPages loads
// happen, never maxPages+1.
func TestDriver_MaxPagesCap(t *testing.T) {
	page := &fakePage{htmls: []string{listing(`<button>Siguiente</button>`, card("iPhone", "$ 1.000.000", ""))}}
	writer := &fakeWriter{}

	err := newTestDriver(testConfig(3, "siguiente", ""), page, writer).Exec(context.Background())
	require.NoError(t, err)

	assert.Len(t, page.navs, 3)
	require.Len(t, writer.saves, 1)
	assert.Len(t, writer.saves[0].products, 3)
}

func TestDriver_PageURLs(t *testing.T) {
	page := &fakePage{htmls: []string{listing(`<button>Siguiente</button>`, card("iPhone", "$ 1.000.000", ""))}}
	writer := &fakeWriter{}

	err := newTestDriver(testConfig(3, "siguiente", ""), page, writer).Exec(context.Background())
	require.NoError(t, err)

	require.Len(t, page.navs, 3)
	assert.Equal(t, "https://shop.example/iphone", page.navs[0], "page 0 drops the query string")
	assert.Equal(t, "https://shop.example/iphone?sort=price&page=1", page.navs[1])
	assert.Equal(t, "https://shop.example/iphone?sort=price&page=2", page.navs[2])
}

// The next-page control matches on aria-label as well as inner text,
// case-insensitively.
func TestDriver_NextPageAriaLabel(t *testing.T) {
	withMore := listing(`<button aria-label="Mostrar más"><svg></svg></button>`, card("iPhone", "$ 1.000.000", ""))
	lastPage := listing(``, card("iPhone", "$ 1.000.000", ""))
	page := &fakePage{htmls: []string{withMore, lastPage}}
	writer := &fakeWriter{}

	err := newTestDriver(testConfig(10, "mostrar más", ""), page, writer).Exec(context.Background())
	require.NoError(t, err)

	assert.Len(t, page.navs, 2, "one follow-up page, then the control disappears")
}

// With only a selector configured, element presence alone decides.
func TestDriver_NextPageSelectorPresence(t *testing.T) {
	withMore := listing(`<div class="fetch-more"></div>`, card("iPhone", "$ 1.000.000", ""))
	lastPage := listing(``, card("iPhone", "$ 1.000.000", ""))
	page := &fakePage{htmls: []string{withMore, lastPage}}
	writer := &fakeWriter{}

	err := newTestDriver(testConfig(10, "", ".fetch-more"), page, writer).Exec(context.Background())
	require.NoError(t, err)

	assert.Len(t, page.navs, 2)
}

// No pagination configured at all means a single page.
func TestDriver_NoPaginationConfigured(t *testing.T) {
	page := &fakePage{htmls: []string{listing(`<button>Siguiente</button>`, card("iPhone", "$ 1.000.000", ""))}}
	writer := &fakeWriter{}

	err := newTestDriver(testConfig(10, "", ""), page, writer).Exec(context.Background())
	require.NoError(t, err)

	assert.Len(t, page.navs, 1)
	assert.True(t, page.closed, "the tab is released when the category ends")
}

// AutoScroll sites scroll to the bottom before the next-page check.
func TestDriver_AutoScrollBeforeCheck(t *testing.T) {
	cfg := testConfig(10, "", ".fetch-more")
	cfg.AutoScroll = true
	page := &fakePage{htmls: []string{listing(``, card("iPhone", "$ 1.000.000", ""))}}
	writer := &fakeWriter{}

	err := newTestDriver(cfg, page, writer).Exec(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, page.scrolls)
}

func TestDriver_ExtractionAndReconciliation(t *testing.T) {
	page := &fakePage{htmls: []string{listing(``,
		card("iPhone 15 Pro", "$ 4.599.000", "$ 5.599.000"),
		card("", "", ""),
	)}}
	writer := &fakeWriter{}

	err := newTestDriver(testConfig(1, "", ""), page, writer).Exec(context.Background())
	require.NoError(t, err)

	require.Len(t, writer.saves, 1)
	products := writer.saves[0].products
	require.Len(t, products, 2)

	first := products[0]
	require.NotNil(t, first.Title)
	assert.Equal(t, "iPhone 15 Pro", *first.Title)
	assert.Equal(t, 4599000.0, first.FinalPrice)
	assert.Equal(t, 5599000.0, first.OriginalPrice)
	require.NotNil(t, first.DiscountPercentage)
	assert.Equal(t, "17.86%", *first.DiscountPercentage)
	require.NotNil(t, first.Link)
	assert.Equal(t, "https://shop.example/p/item", *first.Link, "relative links resolve against the base URL")
	require.NotNil(t, first.Image)
	assert.Equal(t, "https://shop.example/img/item.jpg", *first.Image)

	second := products[1]
	assert.Nil(t, second.Title, "missing elements become null, not errors")
	assert.Equal(t, 0.0, second.FinalPrice, "unparseable price falls back to zero")
	assert.Equal(t, 0.0, second.OriginalPrice)
	assert.Nil(t, second.DiscountPercentage)
}

func TestDriver_CancelledContext(t *testing.T) {
	page := &fakePage{htmls: []string{listing(`<button>Siguiente</button>`, card("iPhone", "$ 1.000.000", ""))}}
	writer := &fakeWriter{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newTestDriver(testConfig(10, "siguiente", ""), page, writer).Exec(ctx)
	assert.Error(t, err)
	assert.Empty(t, writer.saves, "cancellation before the first category starts saves nothing")
}

func TestPageURL(t *testing.T) {
	assert.Equal(t, "https://shop.example/tv", pageURL("https://shop.example", "/tv?brand=lg", 0))
	assert.Equal(t, "https://shop.example/tv?brand=lg&page=2", pageURL("https://shop.example", "/tv?brand=lg", 2))
	assert.Equal(t, "https://shop.example/tv", pageURL("https://shop.example", "/tv", 0))
}

func TestAbsoluteURL(t *testing.T) {
	assert.Equal(t, "", absoluteURL("https://shop.example", ""))
	assert.Equal(t, "https://cdn.example/a.jpg", absoluteURL("https://shop.example", "https://cdn.example/a.jpg"))
	assert.Equal(t, "https://shop.example/p/item", absoluteURL("https://shop.example", "/p/item"))
}
