package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/shkang/stockfolio/internal/clientdata"
	"github.com/shkang/stockfolio/internal/clients/brokerage"
	"github.com/shkang/stockfolio/internal/clients/exchangerate"
	"github.com/shkang/stockfolio/internal/config"
	"github.com/shkang/stockfolio/internal/database"
	"github.com/shkang/stockfolio/internal/modules/commission"
	commissionhandlers "github.com/shkang/stockfolio/internal/modules/commission/handlers"
	currencyhandlers "github.com/shkang/stockfolio/internal/modules/currency/handlers"
	"github.com/shkang/stockfolio/internal/modules/lots"
	lotshandlers "github.com/shkang/stockfolio/internal/modules/lots/handlers"
	ordershandlers "github.com/shkang/stockfolio/internal/modules/orders/handlers"
	"github.com/shkang/stockfolio/internal/modules/portfolio"
	portfoliohandlers "github.com/shkang/stockfolio/internal/modules/portfolio/handlers"
	"github.com/shkang/stockfolio/internal/modules/realized"
	realizedhandlers "github.com/shkang/stockfolio/internal/modules/realized/handlers"
	"github.com/shkang/stockfolio/internal/scheduler"
	"github.com/shkang/stockfolio/internal/server"
	"github.com/shkang/stockfolio/internal/services"
	"github.com/shkang/stockfolio/pkg/logger"
)

func main() {
	// Load configuration first so the log level honors the environment
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting Stockfolio")

	// Cache database for exchange rates and fee-rate profiles
	cacheDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "cache.db"),
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open cache database")
	}
	defer cacheDB.Close()

	if err := cacheDB.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run cache migrations")
	}

	cacheRepo := clientdata.NewRepository(cacheDB.Conn())

	// Remote clients
	rateClient := exchangerate.NewClient(cacheRepo, log)
	backendClient := brokerage.NewClient(cfg.BackendBaseURL, log)

	// Domain services
	resolver := commission.NewResolver(backendClient, cacheRepo, log)
	lotsService := lots.NewService(backendClient, log)
	tradeService := services.NewTradeService(backendClient, lotsService, resolver, log)
	portfolioService := portfolio.NewService(backendClient, rateClient, log)
	filterController := realized.NewController(
		backendClient,
		rateClient,
		cfg.FilterDebounce,
		cfg.FilterMinLoading,
		log,
	)

	// Background jobs
	sched := scheduler.New(log)
	if err := registerJobs(sched, rateClient, cacheRepo, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to register jobs")
	}
	sched.Start()
	defer sched.Stop()

	// HTTP server
	srv := server.New(server.Config{
		Port:   cfg.Port,
		Log:    log,
		Config: cfg,
		Handlers: server.Handlers{
			Currency:   currencyhandlers.NewHandler(rateClient, log),
			Commission: commissionhandlers.NewHandler(resolver, log),
			Lots:       lotshandlers.NewHandler(lotsService, log),
			Orders:     ordershandlers.NewHandler(tradeService, log),
			Portfolio:  portfoliohandlers.NewHandler(portfolioService, log),
			Realized:   realizedhandlers.NewHandler(filterController, log),
			System:     server.NewSystemHandlers(log, cacheDB, sched),
		},
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

func registerJobs(
	sched *scheduler.Scheduler,
	rateClient *exchangerate.Client,
	cacheRepo *clientdata.Repository,
	log zerolog.Logger,
) error {
	// Keep the USD/KRW rate warm so portfolio reads rarely block on the API
	if err := sched.AddJob("@every 30m", exchangerate.NewWarmJob(rateClient, log)); err != nil {
		return err
	}

	// Purge expired cache rows daily
	return sched.AddJob("@daily", clientdata.NewCleanupJob(cacheRepo, log))
}
