package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"pointledger/bot"
	"pointledger/config"
	"pointledger/database"
	"pointledger/events"
	"pointledger/metrics"
	"pointledger/quotes"
	"pointledger/repository"
	"pointledger/repository/memory"
	"pointledger/server"
	"pointledger/service"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	// Load configuration
	cfg := config.Get()
	configureLogging(cfg)

	log.WithField("environment", cfg.Environment).Info("Starting point ledger...")

	// Initialize event bus
	eventBus := events.NewBus()
	metrics.SubscribeLedgerEvents(eventBus)

	// Initialize unit of work factory
	var (
		uowFactory service.UnitOfWorkFactory
		health     server.HealthCheck
	)
	if cfg.UsesPostgres() {
		log.Info("Connecting to database...")
		db, err := database.NewConnection(ctx, database.ConstructDatabaseURL(cfg.DatabaseURL, cfg.DatabaseName))
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		uowFactory = repository.NewUnitOfWorkFactory(db, eventBus)
		health = func(ctx context.Context) error { return db.Ping(ctx) }
		log.Info("Using postgres ledger storage")
	} else {
		uowFactory = memory.NewUnitOfWorkFactory(memory.NewStore(), eventBus)
		log.Warn("DATABASE_URL not set, ledger is kept in memory and lost on exit")
	}

	// Initialize services
	sources := service.DefaultSources()
	game := service.GameConfig{
		WinProbability: cfg.WinProbability,
		BasePayout:     cfg.BasePayout,
		BonusPayout:    cfg.BonusPayout,
	}
	log.WithFields(log.Fields{
		"win_probability": game.WinProbability,
		"expected_payout": game.ExpectedPayout(),
	}).Info("Game configured")

	userService := service.NewUserService(uowFactory, sources)
	gamblingService := service.NewGamblingService(uowFactory, game, sources)
	transferService := service.NewTransferService(uowFactory, sources)
	requestService := service.NewPaymentRequestService(uowFactory, sources)

	// Start the price feed refresher
	quoteCache := quotes.NewCache(quotes.New(quotes.Config{
		URL:     cfg.QuoteURL,
		Timeout: cfg.QuoteTimeout,
	}))
	if err := quoteCache.Start(ctx, cfg.QuoteRefresh); err != nil {
		return fmt.Errorf("failed to start quote refresher: %w", err)
	}
	defer quoteCache.Stop()

	// Initialize HTTP server
	deps := server.Deps{
		Users:    userService,
		Games:    gamblingService,
		Transfer: transferService,
		Requests: requestService,
		Quotes:   quoteCache,
		Health:   health,
	}
	if cfg.RateLimitRPS > 0 {
		deps.Limiter = server.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.New(deps).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Initialize Discord bot
	var discordBot *bot.Bot
	if cfg.BotEnabled() {
		var err error
		discordBot, err = bot.New(bot.Config{
			Token:   cfg.DiscordToken,
			GuildID: cfg.DiscordGuildID,
		}, bot.Services{
			Users:    userService,
			Games:    gamblingService,
			Transfer: transferService,
			Requests: requestService,
		}, eventBus)
		if err != nil {
			return fmt.Errorf("failed to initialize Discord bot: %w", err)
		}
	} else {
		log.Info("DISCORD_TOKEN not set, Discord bot disabled")
	}

	// Wait for context cancellation or a fatal server error
	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		runErr = fmt.Errorf("http server failed: %w", err)
	}

	log.Info("Shutting down...")

	if discordBot != nil {
		if err := discordBot.Close(); err != nil {
			log.WithError(err).Error("Error closing Discord bot")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Error shutting down HTTP server")
	}

	log.Info("Shutdown completed")
	return runErr
}

func configureLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
