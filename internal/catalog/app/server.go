package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"pharmacatalog_api/config"
	"pharmacatalog_api/internal/catalog/app/web"
	"pharmacatalog_api/internal/catalog/app/web/handlers"
	"pharmacatalog_api/internal/catalog/business"
	"pharmacatalog_api/internal/catalog/business/export"
	"pharmacatalog_api/internal/catalog/business/importer"
	"pharmacatalog_api/internal/catalog/pkg/clients"
	"pharmacatalog_api/internal/catalog/scheduler"
	"pharmacatalog_api/internal/catalog/storage"
	"pharmacatalog_api/migrations/catalog"
	"pharmacatalog_api/pkg/dbconnect"
	"pharmacatalog_api/pkg/dbconnect/migration"
	"pharmacatalog_api/pkg/logger"
)

type CatalogServer struct {
	dbconnect.Database
	cfg    *config.AppConfig
	log    logger.Logger
	writer io.Writer
}

func NewCatalogServer(connector dbconnect.Database, cfg *config.AppConfig, writer io.Writer) *CatalogServer {
	return &CatalogServer{
		Database: connector,
		cfg:      cfg,
		log:      logger.NewLogger(writer, "[CatalogServer]"),
		writer:   writer,
	}
}

// Run serves the API until ctx is cancelled, then drains in-flight
// requests within the configured shutdown timeout.
func (s *CatalogServer) Run(ctx context.Context) error {
	db, err := s.Connect(ctx)
	if err != nil {
		return fmt.Errorf("connect to PostgreSQL: %w", err)
	}
	defer s.Close()

	if err := migration.Apply(ctx, db, logger.NewLogger(s.writer, "[Migrations]"), catalog.All()...); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	s.log.Log("Catalog migrations applied successfully!")

	repo := storage.NewProductRepository(db, logger.NewLogger(s.writer, "[ProductRepository]"))

	guia := s.cfg.Guia
	client := clients.NewGuiaClient(guia.URL,
		clients.Credentials{CnpjSH: guia.CnpjSH, CnpjCPF: guia.CnpjCPF, Email: guia.Email, Senha: guia.Senha},
		clients.RetryPolicy{Retries: guia.FetchRetries, Delay: guia.FetchRetryDelay},
		guia.RequestTimeout, guia.RequestsPerSecond, s.writer)

	imp := s.cfg.Import
	importService := importer.NewService(client, repo, importer.Config{
		PageDelay:        imp.PageDelay,
		StallRetryDelay:  imp.StallRetryDelay,
		MaxStallRetries:  imp.MaxStallRetries,
		UpsertRetryDelay: imp.UpsertRetryDelay,
		MaxUpsertRetries: imp.MaxUpsertRetries,
	}, logger.NewLogger(s.writer, "[Importer]"))

	if s.cfg.Scheduler.Enabled {
		sched, err := scheduler.NewImportScheduler(importService, s.cfg.Scheduler.Spec, s.cfg.Scheduler.Timezone,
			logger.NewLogger(s.writer, "[Scheduler]"))
		if err != nil {
			return fmt.Errorf("create scheduler: %w", err)
		}
		sched.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
			defer cancel()
			sched.Stop(stopCtx)
		}()
	}

	webLog := logger.NewLogger(s.writer, "[HTTP]")
	router := web.SetupRoutes(web.Handlers{
		Products: handlers.NewProductHandler(business.NewProductService(repo, imp.ListPageSize, logger.NewLogger(s.writer, "[ProductService]")), webLog),
		Import:   handlers.NewImportHandler(importService, webLog),
		Export:   handlers.NewExportHandler(export.NewExporter(repo, imp.ExportPageSize, logger.NewLogger(s.writer, "[Export]")), webLog),
		System:   handlers.NewSystemHandler(s.Database, s.cfg.Server.DocsDir, webLog),
	}, web.RouterConfig{
		AllowedOrigins: s.cfg.Server.AllowedOrigins,
		JWTSecret:      s.cfg.Auth.JWTSecret,
		AllowedRoles:   s.cfg.Auth.AllowedRoles,
	}, webLog)

	srv := &http.Server{
		Addr:         ":" + s.cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Log("Server is running on port %s", s.cfg.Server.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Log("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
