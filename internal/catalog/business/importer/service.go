package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pharmacatalog_api/internal/catalog/models"
	"pharmacatalog_api/metrics"
	"pharmacatalog_api/pkg/logger"
)

// PageFetcher downloads one normalized upstream page.
type PageFetcher interface {
	FetchPage(ctx context.Context, page int) (*models.GuiaPage, error)
}

// ProductStore is the part of the catalog storage an import writes to.
type ProductStore interface {
	UpsertBatch(ctx context.Context, products []models.Product) (int, error)
	IsEmpty(ctx context.Context) (bool, error)
}

// Importer is what both the HTTP trigger and the scheduler call.
type Importer interface {
	Run(ctx context.Context) *models.ImportSummary
	IsStoreEmpty(ctx context.Context) (bool, error)
}

type Config struct {
	PageDelay        time.Duration
	StallRetryDelay  time.Duration
	MaxStallRetries  int
	UpsertRetryDelay time.Duration
	MaxUpsertRetries int
}

type Service struct {
	fetcher PageFetcher
	store   ProductStore
	cfg     Config
	log     logger.Logger
	now     func() time.Time
	sleep   func(ctx context.Context, d time.Duration) error
}

func NewService(fetcher PageFetcher, store ProductStore, cfg Config, log logger.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		store:   store,
		cfg:     cfg,
		log:     log,
		now:     time.Now,
		sleep:   sleep,
	}
}

func (s *Service) IsStoreEmpty(ctx context.Context) (bool, error) {
	return s.store.IsEmpty(ctx)
}

// Run pulls every upstream page into the store and reports how it went.
// It always returns a finished summary; failures are recorded in it.
func (s *Service) Run(ctx context.Context) (summary *models.ImportSummary) {
	summary = models.NewImportSummary(uuid.NewString(), s.now().UTC())
	log := s.log

	defer func() {
		if r := recover(); r != nil {
			summary.Fail(fmt.Sprintf("Unexpected error: %v", r))
		}
		end := s.now().UTC()
		summary.Finish(end)
		metrics.RecordImport(summary.Status, summary.StartTime, end)
		log.Log("Import %s finished with status %s: %d pages, %d products, %d errors",
			summary.RunID, summary.Status, summary.PagesProcessed, summary.ProductsImported, len(summary.Errors))
	}()

	log.Log("Starting catalog import, run %s", summary.RunID)
	s.loop(ctx, summary, log)
	return summary
}

func (s *Service) loop(ctx context.Context, summary *models.ImportSummary, log logger.Logger) {
	currentPage := 1
	totalKnown := false
	stalls, upsertFailures := 0, 0

	for {
		if err := ctx.Err(); err != nil {
			summary.Fail(fmt.Sprintf("Import cancelled: %v", err))
			return
		}

		log.Log("Processing page %d", currentPage)
		page, err := s.fetcher.FetchPage(ctx, currentPage)
		if err != nil {
			if ctx.Err() != nil {
				summary.Fail(fmt.Sprintf("Import cancelled: %v", ctx.Err()))
				return
			}
			if summary.ProductsImported == 0 {
				log.Error("No successful imports yet, ending import: %v", err)
				summary.Fail("Failed to fetch initial data")
				return
			}
			stalls++
			if stalls > s.cfg.MaxStallRetries {
				log.Error("Page %d still failing after %d retries: %v", currentPage, s.cfg.MaxStallRetries, err)
				summary.Fail(fmt.Sprintf("Failed to fetch page %d after %d retries", currentPage, s.cfg.MaxStallRetries))
				return
			}
			metrics.RecordImportRetry("fetch")
			log.Warn("Fetch of page %d failed, retry %d/%d in %s", currentPage, stalls, s.cfg.MaxStallRetries, s.cfg.StallRetryDelay)
			if !s.wait(ctx, summary, s.cfg.StallRetryDelay) {
				return
			}
			continue
		}
		stalls = 0

		if !totalKnown {
			totalKnown = true
			summary.TotalPages = page.TotalPaginas
			log.Log("Total pages to process: %d", page.TotalPaginas)
		}

		if page.Malformed {
			log.Error("Page %d carried no product array", currentPage)
			summary.Fail("Invalid products data structure")
			return
		}
		if len(page.Data) == 0 {
			log.Log("Received empty products array on page %d, ending import", currentPage)
			summary.Complete()
			return
		}

		written, err := s.store.UpsertBatch(ctx, page.Data)
		if err != nil {
			if ctx.Err() != nil {
				summary.Fail(fmt.Sprintf("Import cancelled: %v", ctx.Err()))
				return
			}
			log.Error("Failed to process page %d: %v", currentPage, err)
			summary.AddError(fmt.Sprintf("Failed to process page %d", currentPage))
			upsertFailures++
			if upsertFailures > s.cfg.MaxUpsertRetries {
				summary.Fail(fmt.Sprintf("Giving up on page %d after %d upsert retries", currentPage, s.cfg.MaxUpsertRetries))
				return
			}
			metrics.RecordImportRetry("upsert")
			if !s.wait(ctx, summary, s.cfg.UpsertRetryDelay) {
				return
			}
			continue
		}
		upsertFailures = 0

		summary.ProductsImported += written
		summary.PagesProcessed = currentPage
		metrics.RecordImportPage(written)
		log.Log("Page %d of %d completed, %d products imported so far", currentPage, summary.TotalPages, summary.ProductsImported)

		if currentPage >= summary.TotalPages {
			log.Log("Reached last page, ending import")
			summary.Complete()
			return
		}
		currentPage++

		if !s.wait(ctx, summary, s.cfg.PageDelay) {
			return
		}
	}
}

func (s *Service) wait(ctx context.Context, summary *models.ImportSummary, d time.Duration) bool {
	if err := s.sleep(ctx, d); err != nil {
		summary.Fail(fmt.Sprintf("Import cancelled: %v", err))
		return false
	}
	return true
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
