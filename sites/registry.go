package sites

import (
	"fmt"
	"sort"
)

// Builtin returns the bundled store configurations. Selector data
// tracks the live markup of each store and is expected to rot; when a
// store redesigns, only the entry here changes.
func Builtin() []SiteConfig {
	return []SiteConfig{
		{
			Name:     "exito",
			BaseURL:  "https://www.exito.com",
			MaxPages: 10,
			Categories: []Category{
				{Name: "celulares", Path: "/coleccion/10996?productClusterIds=10996&facets=productClusterIds&sort=score_desc"},
				{Name: "computadores-apple", Path: "/tecnologia/computadores?category-2=computadores&brand=apple&category-1=tecnologia&facets=category-2%2Cbrand%2Ccategory-1&sort=score_desc"},
				{Name: "lacteos-huevos-y-refrigerados", Path: "/mercado/lacteos-huevos-y-refrigerados?category-1=mercado&category-2=lacteos-huevos-y-refrigerados&facets=category-1%2Ccategory-2&sort=score_desc"},
			},
			NextPageText: "siguiente",
			Selectors: Selectors{
				FirstVisitModal:      ".modal_fs-modal__zQHxL",
				ProductCard:          `article[class^="productCard_"]`,
				Title:                ".styles_name__qQJiK",
				Price:                "[data-fs-container-price-otros]",
				SpecialDiscountPrice: "[data-fs-price]",
				DiscountPercentage:   `[class^="priceSection_container-promotion"]`,
				Image:                `img[alt="Imagen del producto"]`,
				Link:                 `a[data-testid="product-link"]`,
			},
		},
		{
			Name:     "alkosto",
			BaseURL:  "https://www.alkosto.com",
			MaxPages: 20,
			Categories: []Category{
				{Name: "computadores-apple", Path: "/computadores-tablet/c/BI_COMP_ALKOS?sort=relevance&q=%3Arelevance%3Abrand%3AAPPLE"},
			},
			NextPageText: "mostrar más productos",
			Selectors: Selectors{
				ProductCard:        ".ais-InfiniteHits-item",
				Title:              ".product__item__top__title",
				Price:              ".price",
				DiscountPercentage: ".label-offer",
				Image:              ".product__item__information__image > img",
				Link:               ".product__item__top__link",
			},
		},
		{
			Name:     "falabella",
			BaseURL:  "https://www.falabella.com.co",
			MaxPages: 10,
			Categories: []Category{
				{Name: "iphone", Path: "/falabella-co/category/cat1660941/Celulares-y-Telefonos?f.product.brandName=apple"},
				{Name: "computadores-apple", Path: "/falabella-co/category/cat171006/Computadores?facetSelected=true&f.product.brandName=apple"},
			},
			NextPageText: "siguiente",
			Selectors: Selectors{
				ProductCard:          ".search-results-4-grid.grid-pod",
				Title:                "b.copy2",
				Price:                "span.copy10.primary.medium",
				DiscountPrice:        "span.copy3.primary.crossed",
				DiscountPercentage:   ".discount-badge",
				SpecialDiscountPrice: "span.copy10.primary.high",
				Image:                "picture > img",
				Link:                 "a.pod-link",
			},
		},
		{
			Name:     "jumbo",
			BaseURL:  "https://www.jumbocolombia.com",
			MaxPages: 10,
			Categories: []Category{
				{Name: "iphone", Path: "/iphone?_q=iphone&map=ft&order=OrderByPriceDESC"},
			},
			AutoScroll: true,
			Selectors: Selectors{
				ProductCard:          "section.vtex-product-summary-2-x-container",
				Title:                ".vtex-product-summary-2-x-productNameContainer",
				Price:                ".tiendasjumboqaio-jumbo-minicart-2-x-price",
				SpecialDiscountPrice: ".tiendasjumboqaio-jumbo-minicart-2-x-price",
				DiscountPercentage:   ".tiendasjumboqaio-jumbo-minicart-2-x-containerPercentageFlag",
				Image:                "img.vtex-product-summary-2-x-imageNormal",
				Link:                 "a.vtex-product-summary-2-x-clearLink",
				NextPage:             ".tiendasjumboqaio-jumbo-fetch-more-paginator-0-x-contentSvg",
			},
		},
		{
			Name:     "olimpica",
			BaseURL:  "https://www.olimpica.com",
			MaxPages: 20,
			Categories: []Category{
				{Name: "iphone", Path: "/iphone?_q=iphone&map=ft"},
			},
			NextPageText: "Mostrar más",
			Selectors: Selectors{
				ProductCard:   "section.vtex-product-summary-2-x-container",
				Title:         ".vtex-product-summary-2-x-brandName",
				Price:         ".vtex-product-price-1-x-sellingPrice--hasListPrice--dynamicF",
				DiscountPrice: ".olimpica-dinamic-flags-0-x-currencyContainer",
				Image:         "img.vtex-product-summary-2-x-image",
				NextPage:      "button",
			},
		},
		{
			Name:     "mercadolibre",
			BaseURL:  "https://listado.mercadolibre.com.co",
			MaxPages: 1,
			Categories: []Category{
				{Name: "iphone", Path: "/iphone-15#D[A:iphone%2015]"},
			},
			// TODO: mercadolibre paginates with offset segments in the
			// path, not a page query parameter; single page until the
			// driver grows a URL strategy for it.
			Selectors: Selectors{
				ProductCard:          ".poly-card--list",
				Title:                ".poly-component__title",
				Price:                ".poly-price__current",
				SpecialDiscountPrice: ".poly-rebates__pill",
				DiscountPercentage:   ".andes-money-amount__discount",
				Image:                "img.poly-component__picture",
				Link:                 "a.poly-component__title",
			},
		},
		{
			Name:     "ishop",
			BaseURL:  "https://co.tiendasishop.com",
			MaxPages: 20,
			Categories: []Category{
				{Name: "iphone", Path: "/search?q=iphone&options%5Bprefix%5D=last&filter.p.vendor=Apple&filter.v.price.gte=&filter.v.price.lte=&sort_by=relevance"},
				{Name: "computadores-apple", Path: "/search?q=macbook&options%5Bprefix%5D=last&filter.p.vendor=Apple&filter.v.price.gte=&filter.v.price.lte=&sort_by=relevance"},
			},
			NextPageText: "página siguiente",
			Selectors: Selectors{
				ProductCard:          ".search-product-card",
				Title:                ".card-head",
				Price:                ".price__container_carousel",
				SpecialDiscountPrice: ".price-old-class-1",
				DiscountPercentage:   ".price-segment-discount-1",
				Image:                "img.price__container_carousel",
				Link:                 "a.full-unstyled-link",
				NextPage:             "a",
			},
		},
	}
}

// Get returns the built-in configuration for the named store.
func Get(name string) (SiteConfig, error) {
	for _, cfg := range Builtin() {
		if cfg.Name == name {
			return cfg, nil
		}
	}
	return SiteConfig{}, fmt.Errorf("no site configuration for %q", name)
}

// Names lists the built-in store names, sorted.
func Names() []string {
	var names []string
	for _, cfg := range Builtin() {
		names = append(names, cfg.Name)
	}
	sort.Strings(names)
	return names
}
