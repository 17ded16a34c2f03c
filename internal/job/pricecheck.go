// Package job implements the periodic price check: fetch every tracked
// product's page, extract a price, record it, and alert when the price is at
// or below target.
package job

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/pricewatch/internal/logger"
	"github.com/jonesrussell/pricewatch/internal/models"
)

// ProductLister loads tracked products and records alert timestamps.
type ProductLister interface {
	List(ctx context.Context) ([]models.Product, error)
	MarkAlerted(ctx context.Context, id int64, at time.Time) error
}

// PriceRecorder appends price observations.
type PriceRecorder interface {
	Record(ctx context.Context, productID int64, price float64) error
}

// Fetcher retrieves raw page content for a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Extractor parses a price out of page content.
type Extractor interface {
	Extract(html []byte) (float64, error)
}

// Notifier sends a threshold alert.
type Notifier interface {
	Alert(ctx context.Context, recipient, productName string, currentPrice, targetPrice float64) error
}

// Summary reports what one price check cycle did.
type Summary struct {
	Checked  int
	Recorded int
	Alerted  int
	Skipped  int
}

// PriceCheck orchestrates one cycle over all tracked products. Products are
// processed sequentially in registry order; every per-product failure is
// logged and isolated so the batch always runs to completion.
type PriceCheck struct {
	products ProductLister
	history  PriceRecorder
	fetcher  Fetcher
	extract  Extractor
	notifier Notifier
	logger   logger.Logger
	cooldown time.Duration
	now      func() time.Time
}

// NewPriceCheck creates a price check job. cooldown suppresses repeat alerts
// for a product within the window; zero re-alerts on every cycle below target.
func NewPriceCheck(
	products ProductLister,
	history PriceRecorder,
	pageFetcher Fetcher,
	priceExtractor Extractor,
	alertNotifier Notifier,
	log logger.Logger,
	cooldown time.Duration,
) *PriceCheck {
	return &PriceCheck{
		products: products,
		history:  history,
		fetcher:  pageFetcher,
		extract:  priceExtractor,
		notifier: alertNotifier,
		logger:   log,
		cooldown: cooldown,
		now:      time.Now,
	}
}

// Run executes one full cycle. The only error it can return is a failure to
// load the product list; everything after that is absorbed per product.
func (j *PriceCheck) Run(ctx context.Context) (Summary, error) {
	log := j.logger.With(logger.String("run_id", uuid.New().String()))

	products, err := j.products.List(ctx)
	if err != nil {
		log.Error("Failed to load products", logger.Error(err))
		return Summary{}, err
	}

	log.Info("Price check started", logger.Int("products", len(products)))

	var summary Summary
	for i := range products {
		summary.Checked++
		j.checkProduct(ctx, log, &products[i], &summary)
	}

	log.Info("Price check finished",
		logger.Int("checked", summary.Checked),
		logger.Int("recorded", summary.Recorded),
		logger.Int("alerted", summary.Alerted),
		logger.Int("skipped", summary.Skipped),
	)

	return summary, nil
}

// checkProduct runs fetch → extract → record → alert for one product.
func (j *PriceCheck) checkProduct(
	ctx context.Context,
	log logger.Logger,
	product *models.Product,
	summary *Summary,
) {
	plog := log.With(
		logger.Int64("product_id", product.ID),
		logger.String("product_name", product.Name),
	)

	html, err := j.fetcher.Fetch(ctx, product.URL)
	if err != nil {
		plog.Warn("Fetch failed, skipping product", logger.String("url", product.URL), logger.Error(err))
		summary.Skipped++
		return
	}

	price, err := j.extract.Extract(html)
	if err != nil {
		plog.Warn("Price extraction failed, skipping product", logger.Error(err))
		summary.Skipped++
		return
	}

	// Recorded unconditionally, even when the price is above target. A lost
	// observation is logged and forgotten; it must not stop the batch.
	if recordErr := j.history.Record(ctx, product.ID, price); recordErr != nil {
		plog.Error("Failed to record observation", logger.Error(recordErr))
	} else {
		summary.Recorded++
	}

	if price > product.TargetPrice {
		plog.Debug("Price above target",
			logger.Float64("price", price),
			logger.Float64("target", product.TargetPrice),
		)
		return
	}

	if j.suppressed(product) {
		plog.Debug("Alert suppressed by cooldown",
			logger.Float64("price", price),
			logger.Time("last_alerted_at", *product.LastAlertedAt),
		)
		return
	}

	plog.Info("Price at or below target, sending alert",
		logger.Float64("price", price),
		logger.Float64("target", product.TargetPrice),
	)

	if alertErr := j.notifier.Alert(ctx, product.UserEmail, product.Name, price, product.TargetPrice); alertErr != nil {
		plog.Error("Failed to send alert", logger.Error(alertErr))
		return
	}
	summary.Alerted++

	if markErr := j.products.MarkAlerted(ctx, product.ID, j.now()); markErr != nil {
		plog.Error("Failed to mark product alerted", logger.Error(markErr))
	}
}

// suppressed reports whether the product's last alert is still inside the
// cooldown window.
func (j *PriceCheck) suppressed(product *models.Product) bool {
	if j.cooldown <= 0 || product.LastAlertedAt == nil {
		return false
	}
	return j.now().Sub(*product.LastAlertedAt) < j.cooldown
}
