package pricing

import "math"

// PriceTexts carries the raw price-related fields of one product card.
// Any of them may be empty; different stores expose different subsets
// and the reconciler infers whatever is missing.
type PriceTexts struct {
	FinalPrice                string
	DiscountPrice             string
	DiscountPercentage        string
	SpecialDiscountPrice      string
	SpecialDiscountPercentage string
}

// Breakdown is the reconciled, self-consistent price block of one
// product. Percentages are already formatted for serialization.
type Breakdown struct {
	OriginalPrice             float64
	FinalPrice                float64
	SpecialDiscountPrice      *float64
	DiscountPercentage        *string
	SpecialDiscountPercentage *string
}

// CalculatePriceAndDiscounts derives the original price, final price
// and discount percentages from partial, possibly-conflicting inputs.
// It is a pure function and never fails: garbled input degrades to
// zero-valued fields, since partial data beats a dropped record.
func CalculatePriceAndDiscounts(texts PriceTexts) Breakdown {
	finalPrice := NormalizePrice(texts.FinalPrice)
	discountPrice := NormalizePrice(texts.DiscountPrice)
	specialDiscountPrice := NormalizePrice(texts.SpecialDiscountPrice)
	discount := NormalizeDiscount(texts.DiscountPercentage)
	special := NormalizeDiscount(texts.SpecialDiscountPercentage)

	// The crossed-out price is the preferred original; a discount badge
	// amount is the next best signal; with no signal at all the item is
	// simply not on sale.
	originalPrice := finalPrice
	switch {
	case discountPrice != 0:
		originalPrice = discountPrice
	case discount.Amount != 0:
		originalPrice = discount.Amount
	}
	if discountPrice == 0 && discount.Percentage != 0 {
		originalPrice = finalPrice / (1 - discount.Percentage/100)
	}
	// A 100% badge or conflicting inputs can leave originalPrice
	// non-finite or non-positive; fall back before any division below.
	if originalPrice <= 0 || math.IsInf(originalPrice, 0) || math.IsNaN(originalPrice) {
		originalPrice = finalPrice
	}

	specialPrice := specialDiscountPrice
	if specialPrice == 0 {
		specialPrice = special.Amount
	}

	discountPct := discount.Percentage
	if specialPrice != 0 || discount.Percentage == 0 {
		discountPct = 0
		if originalPrice > 0 {
			discountPct = round2((originalPrice - finalPrice) / originalPrice * 100)
		}
	}

	specialPct := special.Percentage
	if specialPrice != 0 && special.Percentage == 0 {
		specialPct = 0
		if originalPrice > 0 {
			specialPct = round2((originalPrice - specialPrice) / originalPrice * 100)
		}
	} else if specialPrice == 0 {
		// A special percentage with no special price to anchor it is
		// meaningless; report no special discount.
		specialPct = 0
	}

	out := Breakdown{
		OriginalPrice:             round2(originalPrice),
		FinalPrice:                round2(finalPrice),
		DiscountPercentage:        FormatPercentage(discountPct),
		SpecialDiscountPercentage: FormatPercentage(specialPct),
	}
	if specialPrice != 0 {
		rounded := round2(specialPrice)
		out.SpecialDiscountPrice = &rounded
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
