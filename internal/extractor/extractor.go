// Package extractor parses a numeric price out of product page HTML.
package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	// ErrSelectorNotFound is returned when the page has no element matching
	// the configured price selector.
	ErrSelectorNotFound = errors.New("price selector not found in page")

	// ErrPriceNotNumeric is returned when the selected element's text does not
	// reduce to a parseable number.
	ErrPriceNotNumeric = errors.New("price text is not numeric")
)

// nonPriceChars strips everything but digits and decimal points. Commas are
// removed beforehand so thousands separators don't survive as dots-adjacent
// garbage.
var nonPriceChars = regexp.MustCompile(`[^0-9.]`)

// PriceExtractor locates a price-bearing element via a fixed CSS selector and
// parses its text into a number. Extraction is a pure function of the page
// content: same bytes, same result, and it never panics.
type PriceExtractor struct {
	selector string
}

// New creates a PriceExtractor for the given CSS selector, e.g. "p.price_color".
// The selector is a markup contract with the target site; callers are expected
// to know the site's structure.
func New(selector string) *PriceExtractor {
	return &PriceExtractor{selector: selector}
}

// Extract parses html and returns the price found at the configured selector.
// Currency symbols and thousands separators in the element text are tolerated.
func (e *PriceExtractor) Extract(html []byte) (float64, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return 0, fmt.Errorf("parse html: %w", err)
	}

	sel := doc.Find(e.selector).First()
	if sel.Length() == 0 {
		return 0, ErrSelectorNotFound
	}

	raw := strings.TrimSpace(sel.Text())
	cleaned := nonPriceChars.ReplaceAllString(strings.ReplaceAll(raw, ",", ""), "")

	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrPriceNotNumeric, raw)
	}
	if price < 0 {
		return 0, fmt.Errorf("%w: negative value %q", ErrPriceNotNumeric, raw)
	}

	return price, nil
}
