package pricing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Discount is the result of parsing a discount badge: a percentage
// token ("27%") and/or a currency amount ("$ 15.500"). Either may be
// zero when the corresponding token is absent.
type Discount struct {
	Percentage float64
	Amount     float64
}

var (
	priceJunkRe     = regexp.MustCompile(`[$,\s]`)
	leadingDigitsRe = regexp.MustCompile(`^\d+`)
	percentRe       = regexp.MustCompile(`(\d+)%`)
	amountRe        = regexp.MustCompile(`\$\s?(\d{1,3}(?:[.,]\d{3})*(?:[.,]\d*)?)`)
	separatorRe     = regexp.MustCompile(`[.,]`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
)

// NormalizePrice converts locale-formatted price text into a number.
// The source locale uses "." strictly as a thousands separator, so
// every dot is a grouping character to strip: "$ 11.600" is 11600,
// never 11.6. Empty or unparseable input yields 0.
func NormalizePrice(text string) float64 {
	cleaned := priceJunkRe.ReplaceAllString(strings.TrimSpace(text), "")
	cleaned = strings.ReplaceAll(cleaned, ".", "")

	digits := leadingDigitsRe.FindString(cleaned)
	if digits == "" {
		return 0
	}
	value, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0
	}
	return value
}

// NormalizeDiscount parses discount badge text, which often carries
// embedded newlines straight from the DOM ("-\n\n27\n\n%\n\n$ 15.500").
// Newlines are removed, whitespace collapsed, then the first "NN%"
// token and the first "$"-prefixed grouped number are extracted.
func NormalizeDiscount(text string) Discount {
	if strings.TrimSpace(text) == "" {
		return Discount{}
	}

	cleaned := strings.ReplaceAll(text, "\n", "")
	cleaned = strings.TrimSpace(whitespaceRe.ReplaceAllString(cleaned, " "))

	var d Discount
	if m := percentRe.FindStringSubmatch(cleaned); m != nil {
		d.Percentage, _ = strconv.ParseFloat(m[1], 64)
	}
	if m := amountRe.FindStringSubmatch(cleaned); m != nil {
		d.Amount, _ = strconv.ParseFloat(separatorRe.ReplaceAllString(m[1], ""), 64)
	}
	return d
}

// FormatPercentage renders a non-zero percentage as "NN.NN%". Zero
// means "no discount" and maps to null in the output, so nil comes
// back. Only the serialization boundary calls this; intermediate
// comparisons stay numeric.
func FormatPercentage(value float64) *string {
	if value == 0 {
		return nil
	}
	s := fmt.Sprintf("%.2f%%", value)
	return &s
}
