package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aleister1102/autoaudit/internal/backend"
	"github.com/aleister1102/autoaudit/internal/common"
	"github.com/aleister1102/autoaudit/internal/config"
	"github.com/aleister1102/autoaudit/internal/datastore"
	"github.com/aleister1102/autoaudit/internal/logger"
	"github.com/aleister1102/autoaudit/internal/notifier"
	"github.com/aleister1102/autoaudit/internal/readmodel"
	"github.com/aleister1102/autoaudit/internal/rescanner"
	"github.com/aleister1102/autoaudit/internal/rslimiter"
	"github.com/aleister1102/autoaudit/internal/scheduler"

	"github.com/rs/zerolog"
)

func main() {
	flags := ParseFlags()

	gCfg, err := config.LoadGlobalConfig(flags.GlobalConfigFile)
	if err != nil {
		log.Fatalf("[FATAL] Could not load global config using path '%s': %v", flags.GlobalConfigFile, err)
	}

	zLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		log.Fatalf("[FATAL] Could not initialize logger: %v", err)
	}

	if flags.Mode != "" {
		gCfg.Mode = flags.Mode
		zLogger.Info().Str("mode", gCfg.Mode).Msg("Mode overridden by command line flag")
	}
	if gCfg.Mode == "" {
		gCfg.Mode = "oneshot"
	}

	if err := config.ValidateConfig(gCfg); err != nil {
		zLogger.Fatal().Err(err).Msg("Configuration validation failed")
	}

	app, err := buildApp(gCfg, zLogger)
	if err != nil {
		zLogger.Fatal().Err(err).Msg("Failed to initialize application")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		zLogger.Info().Str("signal", sig.String()).Msg("Received interrupt signal, initiating graceful shutdown")
		cancel()
	}()

	switch gCfg.Mode {
	case "automated":
		runAutomated(ctx, app)
	default:
		if err := runOneshot(ctx, app, flags); err != nil {
			app.logger.Error().Err(err).Msg("Action failed")
			os.Exit(1)
		}
	}
}

// app bundles the wired services shared by both run modes.
type app struct {
	cfg                *config.GlobalConfig
	logger             zerolog.Logger
	backendClient      *backend.Client
	store              *readmodel.Store
	coordinator        *rescanner.Coordinator
	notificationHelper *notifier.NotificationHelper
	archive            *datastore.CheckArchive
}

// buildApp wires the service graph: HTTP clients, backend client, read-model
// store, job tracker, coordinator, notification sinks and local archive.
func buildApp(gCfg *config.GlobalConfig, zLogger zerolog.Logger) (*app, error) {
	backendClient, err := backend.NewClientBuilder(zLogger).
		WithConfig(gCfg.BackendConfig).
		Build()
	if err != nil {
		return nil, common.WrapError(err, "failed to build backend client")
	}

	store := readmodel.NewStore(zLogger)
	tracker := rescanner.NewJobTracker()
	coordinator := rescanner.NewCoordinator(backendClient, tracker, store, zLogger)

	var discordNotifier *notifier.DiscordNotifier
	if gCfg.NotificationConfig.RescanServiceDiscordWebhook != "" || gCfg.NotificationConfig.CycleSummaryDiscordWebhook != "" {
		factory := common.NewHTTPClientFactory(zLogger)
		discordClient, err := factory.CreateDiscordClient(time.Duration(gCfg.NotificationConfig.DiscordWebhookTimeoutSeconds) * time.Second)
		if err != nil {
			return nil, common.WrapError(err, "failed to create Discord HTTP client")
		}
		discordNotifier = notifier.NewDiscordNotifier(zLogger, discordClient)
	}
	renderer := notifier.NewConsoleRenderer(os.Stdout)
	notificationHelper := notifier.NewNotificationHelper(discordNotifier, renderer, gCfg.NotificationConfig, zLogger)

	archive, err := datastore.NewCheckArchive(&gCfg.StorageConfig, zLogger)
	if err != nil {
		// The agent stays useful without a local archive.
		zLogger.Warn().Err(err).Msg("Failed to initialize check archive, local archiving disabled")
		archive = nil
	}

	return &app{
		cfg:                gCfg,
		logger:             zLogger,
		backendClient:      backendClient,
		store:              store,
		coordinator:        coordinator,
		notificationHelper: notificationHelper,
		archive:            archive,
	}, nil
}

// runAutomated starts the cycle scheduler and blocks until shutdown.
func runAutomated(ctx context.Context, app *app) {
	limiter := rslimiter.NewResourceLimiter(app.cfg.LimiterConfig, app.logger)

	var archiver scheduler.CheckArchiver
	if app.archive != nil {
		archiver = app.archive
	}
	executor := scheduler.NewCycleExecutor(
		app.cfg,
		app.backendClient,
		app.coordinator,
		app.notificationHelper,
		archiver,
		app.logger,
	)

	schedulerInstance, err := scheduler.NewScheduler(app.cfg, executor, limiter, app.notificationHelper, app.logger)
	if err != nil {
		app.logger.Fatal().Err(err).Msg("Failed to initialize scheduler")
	}

	if err := schedulerInstance.Start(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			app.logger.Info().Msg("Scheduler stopped due to interrupt")
			return
		}
		app.logger.Error().Err(err).Msg("Scheduler error")
	}
}
