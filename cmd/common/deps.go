// Package common provides shared dependency setup for pricewatch commands.
package common

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/pricewatch/internal/config"
	"github.com/jonesrussell/pricewatch/internal/database"
	"github.com/jonesrussell/pricewatch/internal/extractor"
	"github.com/jonesrussell/pricewatch/internal/fetcher"
	"github.com/jonesrussell/pricewatch/internal/job"
	"github.com/jonesrussell/pricewatch/internal/logger"
	"github.com/jonesrussell/pricewatch/internal/notifier"
)

// Deps holds the dependencies every command starts from.
type Deps struct {
	Config   *config.Config
	Logger   logger.Logger
	DB       *sqlx.DB
	Products *database.ProductRepository
	History  *database.HistoryRepository
}

// Setup loads config, creates the logger, connects to the database, and
// applies the schema. Callers own closing Deps.DB.
func Setup(ctx context.Context) (*Deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if migrateErr := database.Migrate(ctx, db); migrateErr != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", migrateErr)
	}

	return &Deps{
		Config:   cfg,
		Logger:   log,
		DB:       db,
		Products: database.NewProductRepository(db),
		History:  database.NewHistoryRepository(db),
	}, nil
}

// Close releases the dependencies. Safe to call once after Setup succeeds.
func (d *Deps) Close() {
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("Failed to close database", logger.Error(err))
	}
	_ = d.Logger.Sync()
}

// NewPriceCheck wires the scrape-record-alert pipeline from the loaded deps.
func (d *Deps) NewPriceCheck() *job.PriceCheck {
	pageFetcher := fetcher.New(fetcher.Config{
		UserAgent: d.Config.Scraper.UserAgent,
		Timeout:   d.Config.Scraper.FetchTimeout,
	})
	priceExtractor := extractor.New(d.Config.Scraper.PriceSelector)
	alertNotifier := notifier.New(d.Config.SMTP)

	return job.NewPriceCheck(
		d.Products,
		d.History,
		pageFetcher,
		priceExtractor,
		alertNotifier,
		d.Logger,
		d.Config.Alerts.Cooldown,
	)
}
