package extractor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/pricewatch/internal/extractor"
)

// bookPageHTML mirrors the markup of a typical product page with a single
// price element.
const bookPageHTML = `<!DOCTYPE html>
<html>
<head><title>A Light in the Attic</title></head>
<body>
  <div class="product_main">
    <h1>A Light in the Attic</h1>
    <p class="price_color">£51.77</p>
    <p class="availability">In stock</p>
  </div>
</body>
</html>`

func TestPriceExtractor_Extract(t *testing.T) {
	tests := []struct {
		name      string
		selector  string
		html      string
		wantPrice float64
		wantErr   error
	}{
		{
			name:      "pound symbol stripped",
			selector:  "p.price_color",
			html:      bookPageHTML,
			wantPrice: 51.77,
		},
		{
			name:      "dollar symbol and thousands separator",
			selector:  "span.price",
			html:      `<html><body><span class="price">$1,299.99</span></body></html>`,
			wantPrice: 1299.99,
		},
		{
			name:      "whitespace around price",
			selector:  "p.price_color",
			html:      `<html><body><p class="price_color">  49.00  </p></body></html>`,
			wantPrice: 49,
		},
		{
			name:      "integer price",
			selector:  "p.price_color",
			html:      `<html><body><p class="price_color">₹500</p></body></html>`,
			wantPrice: 500,
		},
		{
			name:      "first matching element wins",
			selector:  "p.price_color",
			html:      `<html><body><p class="price_color">£10.00</p><p class="price_color">£20.00</p></body></html>`,
			wantPrice: 10,
		},
		{
			name:     "selector missing",
			selector: "p.price_color",
			html:     `<html><body><p class="availability">In stock</p></body></html>`,
			wantErr:  extractor.ErrSelectorNotFound,
		},
		{
			name:     "non-numeric text",
			selector: "p.price_color",
			html:     `<html><body><p class="price_color">Call for price</p></body></html>`,
			wantErr:  extractor.ErrPriceNotNumeric,
		},
		{
			name:     "empty element",
			selector: "p.price_color",
			html:     `<html><body><p class="price_color"></p></body></html>`,
			wantErr:  extractor.ErrPriceNotNumeric,
		},
		{
			name:     "empty content",
			selector: "p.price_color",
			html:     "",
			wantErr:  extractor.ErrSelectorNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := extractor.New(tt.selector)

			price, err := e.Extract([]byte(tt.html))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.InDelta(t, tt.wantPrice, price, 0.001)
		})
	}
}

func TestPriceExtractor_Deterministic(t *testing.T) {
	e := extractor.New("p.price_color")

	first, err := e.Extract([]byte(bookPageHTML))
	require.NoError(t, err)

	for range 5 {
		again, extractErr := e.Extract([]byte(bookPageHTML))
		require.NoError(t, extractErr)
		assert.Equal(t, first, again)
	}
}
