package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"pulse/internal/amqp"
	"pulse/internal/cache"
	"pulse/internal/cli"
	"pulse/internal/config"
	"pulse/internal/core"
	apphttp "pulse/internal/http"
	"pulse/internal/identity"
	"pulse/internal/ingest"
	"pulse/internal/log"
	"pulse/internal/pdftext"
	"pulse/internal/services"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(config.Load(), log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).Validate)
	logger = cli.SetupLogger(cfg, log.ComponentApp)

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("Invalid timezone", log.FieldError, err, "timezone", cfg.Timezone)
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	rules := ingest.DefaultRules()
	if cfg.CategoryRulesFile != "" {
		rules, err = ingest.LoadRules(cfg.CategoryRulesFile)
		if err != nil {
			logger.Error("Failed to load category rules", log.FieldError, err, "path", cfg.CategoryRulesFile)
			os.Exit(1)
		}
		logger.Info("Loaded category rules", "path", cfg.CategoryRulesFile)
	}

	extractor := pdftext.New(
		pdftext.WithMaxPages(cfg.PDFMaxPages),
		pdftext.WithLogger(logger.WithComponent(log.ComponentIngest)),
	)
	pipeline := ingest.NewPipeline(repo, extractor, ingest.NewCategorizer(rules),
		ingest.WithLocation(loc),
		ingest.WithLogger(logger.WithComponent(log.ComponentIngest)),
	)

	summaries := cache.NewLRUCache[core.Summary](cfg.SummaryCacheSize, cfg.SummaryCacheTTL)
	cacheManager := cache.NewManager(summaries)

	// Publishing is optional: without a broker, imports still land in SQLite
	// and the worker's periodic sweep exports them later.
	var publisher services.ImportPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, import events disabled", log.FieldError, err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("AMQP publisher connected", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	imports := services.NewImportService(pipeline, publisher, summaries)
	ledger := services.NewLedgerService(repo, summaries)
	profiles := services.NewProfileService(repo, summaries)

	srv := apphttp.NewServer(apphttp.Options{
		Addr:               net.JoinHostPort("", cfg.Port),
		CSVMaxBytes:        cfg.CSVMaxBytes,
		PDFMaxBytes:        cfg.PDFMaxBytes,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Location:           loc,
		Logger:             logger,
		Verifier:           identity.NewVerifier(cfg.JWTSecret, cfg.AuthCookieName),
		Users:              repo,
		Ready:              repo.Ping,
	}, imports, ledger, profiles)

	ctx := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting pulse server", "port", cfg.Port, "timezone", loc.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		cacheManager.Run(gctx, time.Minute)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
