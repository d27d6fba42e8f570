package models

// RawProduct holds the text of one product card exactly as rendered.
// An empty string means the site does not expose that field, or the
// element was missing for this particular product.
type RawProduct struct {
	Title                     string
	FinalPrice                string
	DiscountPrice             string
	DiscountPercentage        string
	SpecialDiscountPrice      string
	SpecialDiscountPercentage string
	Image                     string
	Link                      string
}

// Product is the persisted record for one listed item. Prices are
// reconciled numbers; percentage fields are pre-formatted ("NN.NN%")
// or null. Field order here defines the CSV column order.
type Product struct {
	Title                     *string  `json:"title"`
	Image                     *string  `json:"image"`
	Link                      *string  `json:"link"`
	OriginalPrice             float64  `json:"originalPrice"`
	FinalPrice                float64  `json:"finalPrice"`
	SpecialDiscountPrice      *float64 `json:"specialDiscountPrice"`
	DiscountPercentage        *string  `json:"discountPercentage"`
	SpecialDiscountPercentage *string  `json:"specialDiscountPercentage"`
}

// FieldNames returns the Product field names in declaration order,
// used as the CSV header.
func FieldNames() []string {
	return []string{
		"title",
		"image",
		"link",
		"originalPrice",
		"finalPrice",
		"specialDiscountPrice",
		"discountPercentage",
		"specialDiscountPercentage",
	}
}
