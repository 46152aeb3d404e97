package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/blockplan/blockplan-api/internal/api"
	"github.com/blockplan/blockplan-api/internal/api/middleware"
	"github.com/blockplan/blockplan-api/internal/api/shared"
	"github.com/blockplan/blockplan-api/internal/config"
	"github.com/blockplan/blockplan-api/internal/platform/postgres"
	"github.com/blockplan/blockplan-api/internal/service"
)

// application bundles the wired components of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	router http.Handler
}

// newApplication connects the database, applies migrations, and wires
// stores, services, and handlers into a router.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := setupDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	categoryStore := postgres.NewPostgresCategoryStore(db, logger)
	blockStore := postgres.NewPostgresBlockStore(db, logger)
	taskStore := postgres.NewPostgresTaskStore(db, logger)
	statsStore := postgres.NewPostgresStatsStore(db, logger)
	quoteStore := postgres.NewPostgresQuoteStore(db, logger)

	txRunner := service.NewTxRunner(db)
	validator := service.NewCategoryValidator(categoryStore)

	categoryService, err := service.NewCategoryService(categoryStore, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create category service: %w", err)
	}
	taskService, err := service.NewTaskService(taskStore, blockStore, validator, txRunner, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}
	blockService, err := service.NewBlockService(blockStore, taskStore, categoryStore, statsStore, txRunner, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create block service: %w", err)
	}
	statsService, err := service.NewStatsService(statsStore, blockStore, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create stats service: %w", err)
	}
	quoteService, err := service.NewQuoteService(quoteStore, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create quote service: %w", err)
	}

	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}
	app.router = app.setupRouter(
		api.NewCategoryHandler(categoryService, statsService),
		api.NewBlockHandler(blockService, statsService),
		api.NewTaskHandler(taskService),
		api.NewQuoteHandler(quoteService),
	)

	return app, nil
}

// setupRouter builds the chi router with middleware and the API routes.
func (app *application) setupRouter(
	categoryHandler *api.CategoryHandler,
	blockHandler *api.BlockHandler,
	taskHandler *api.TaskHandler,
	quoteHandler *api.QuoteHandler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.TraceMiddleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.ListCategories)
			r.Post("/", categoryHandler.CreateCategory)
			r.Get("/with-counts", categoryHandler.ListCategoriesWithCounts)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", categoryHandler.GetCategory)
				r.Put("/", categoryHandler.UpdateCategory)
				r.Delete("/", categoryHandler.DeleteCategory)
				r.Get("/stats", categoryHandler.GetCategoryStats)
			})
		})

		r.Route("/blocks", func(r chi.Router) {
			r.Get("/", blockHandler.ListBlocks)
			r.Post("/", blockHandler.CreateBlock)
			r.Put("/reorder", blockHandler.ReorderBlocks)
			r.Get("/next", blockHandler.GetNextBlock)
			r.Get("/active", blockHandler.GetActiveBlocks)
			r.Get("/statistics", blockHandler.GetQueueStatistics)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", blockHandler.GetBlock)
				r.Put("/", blockHandler.UpdateBlock)
				r.Delete("/", blockHandler.DeleteBlock)
				r.Get("/tasks", blockHandler.GetBlockWithTasks)
				r.Get("/progress", blockHandler.GetBlockProgress)
				r.Post("/clone", blockHandler.CloneBlock)
				r.Post("/reset", blockHandler.ResetBlockTasks)
				r.Post("/move-to-end", blockHandler.MoveBlockToEnd)
				r.Post("/complete-and-reset", blockHandler.CompleteAndResetBlock)
			})
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.ListTasks)
			r.Post("/", taskHandler.CreateTask)
			r.Put("/reorder", taskHandler.ReorderTasks)
			r.Post("/bulk-complete", taskHandler.BulkCompleteTasks)
			r.Post("/bulk-uncomplete", taskHandler.BulkUncompleteTasks)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", taskHandler.GetTask)
				r.Put("/", taskHandler.UpdateTask)
				r.Delete("/", taskHandler.DeleteTask)
				r.Post("/complete", taskHandler.CompleteTask)
				r.Post("/uncomplete", taskHandler.UncompleteTask)
			})
		})

		r.Route("/quotes", func(r chi.Router) {
			r.Post("/", quoteHandler.CreateQuote)
			r.Get("/latest", quoteHandler.GetLatestQuote)
		})
	})

	return r
}

// run starts the HTTP server and blocks until shutdown.
func (app *application) run() error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           app.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("Starting server", "port", app.config.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-shutdownCh:
		app.logger.Info("Shutting down server", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	app.logger.Info("Server stopped")
	return nil
}

// close releases the application's resources.
func (app *application) close() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
	}
}
