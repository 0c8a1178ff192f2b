package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"pharmacatalog_api/internal/catalog/business/importer"
	"pharmacatalog_api/pkg/logger"
)

// DefaultSpec fires at 03:00 on days 1, 8, 15, 22 and 29 of every month.
const DefaultSpec = "0 3 */7 * *"

// ImportScheduler owns the periodic trigger of the catalog import. The
// importer itself knows nothing about being scheduled.
type ImportScheduler struct {
	importer importer.Importer
	cron     *cron.Cron
	entry    cron.EntryID
	ctx      context.Context
	cancel   context.CancelFunc
	log      logger.Logger
}

func NewImportScheduler(imp importer.Importer, spec, timezone string, log logger.Logger) (*ImportScheduler, error) {
	loc := time.Local
	if timezone != "" {
		var err error
		if loc, err = time.LoadLocation(timezone); err != nil {
			return nil, fmt.Errorf("load scheduler timezone: %w", err)
		}
	}

	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &ImportScheduler{
		importer: imp,
		cron:     cron.New(cron.WithLocation(loc), cron.WithChain(cron.Recover(cronLogger{log}))),
		ctx:      ctx,
		cancel:   cancel,
		log:      log,
	}
	s.entry = s.cron.Schedule(schedule, cron.FuncJob(s.runImport))
	return s, nil
}

func (s *ImportScheduler) Start() {
	s.cron.Start()
	s.log.Log("Import scheduler started, next run at %s", s.NextRun().Format(time.RFC3339))
}

// Stop cancels a running import and waits for it to return or for ctx to
// expire, whichever comes first.
func (s *ImportScheduler) Stop(ctx context.Context) {
	s.cancel()
	select {
	case <-s.cron.Stop().Done():
		s.log.Log("Import scheduler stopped")
	case <-ctx.Done():
		s.log.Warn("Import scheduler stop timed out: %v", ctx.Err())
	}
}

// NextRun is zero until the scheduler has been started.
func (s *ImportScheduler) NextRun() time.Time {
	return s.cron.Entry(s.entry).Next
}

func (s *ImportScheduler) runImport() {
	s.log.Log("Starting scheduled import task")
	summary := s.importer.Run(s.ctx)
	if len(summary.Errors) > 0 {
		s.log.Warn("Scheduled import %s ended %s with errors: %v", summary.RunID, summary.Status, summary.Errors)
		return
	}
	s.log.Log("Scheduled import %s ended %s: %d products from %d pages",
		summary.RunID, summary.Status, summary.ProductsImported, summary.PagesProcessed)
}

// cronLogger routes cron's own messages (including recovered panics)
// through the service logger.
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Log("%s %v", msg, keysAndValues)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("%s: %v %v", msg, err, keysAndValues)
}
