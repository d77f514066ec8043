package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aleister1102/metawatch/internal/config"
	"github.com/aleister1102/metawatch/internal/datastore"
	"github.com/aleister1102/metawatch/internal/differ"
	"github.com/aleister1102/metawatch/internal/extractor"
	"github.com/aleister1102/metawatch/internal/httpclient"
	"github.com/aleister1102/metawatch/internal/logger"
	"github.com/aleister1102/metawatch/internal/notifier"
	"github.com/aleister1102/metawatch/internal/orchestrator"
	"github.com/aleister1102/metawatch/internal/reporter"
	"github.com/aleister1102/metawatch/internal/sitemap"
	"github.com/aleister1102/metawatch/internal/urlhandler"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	os.Exit(run())
}

func run() int {
	flags := ParseFlags()

	if err := godotenv.Load(flags.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[WARN] Main: could not load env file '%s': %v", flags.EnvFile, err)
	}

	gCfg, err := config.LoadGlobalConfig(flags.GlobalConfigFile, zerolog.Nop())
	if err != nil {
		log.Printf("[FATAL] Main: could not load global config using path '%s': %v", flags.GlobalConfigFile, err)
		return 1
	}

	appLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		log.Printf("[FATAL] Main: could not initialize logger: %v", err)
		return 1
	}

	if flags.SitemapsFile != "" {
		urls, err := urlhandler.ReadURLsFromFile(flags.SitemapsFile, appLogger)
		if err != nil {
			appLogger.Error().Err(err).Str("file", flags.SitemapsFile).Msg("Could not read sitemap list")
			return 1
		}
		gCfg.Sites.SitemapURLs = urls
		appLogger.Info().Int("count", len(urls)).Str("file", flags.SitemapsFile).Msg("Sitemap URLs overridden from file")
	}

	if err := config.ValidateConfig(gCfg); err != nil {
		appLogger.Error().Err(err).Msg("Configuration validation failed")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orch, err := buildOrchestrator(gCfg, appLogger)
	if err != nil {
		appLogger.Error().Err(err).Msg("Failed to initialize pipeline")
		return 1
	}

	results := orch.Run(ctx, gCfg.Sites.SitemapURLs)
	if ctx.Err() != nil {
		appLogger.Warn().Msg("Run interrupted")
		return 1
	}
	if orchestrator.AnyFailed(results) {
		return 1
	}
	return 0
}

func buildOrchestrator(gCfg *config.GlobalConfig, appLogger zerolog.Logger) (*orchestrator.Orchestrator, error) {
	client, err := httpclient.NewHTTPClientBuilder(appLogger).
		WithCrawlerConfig(gCfg.CrawlerConfig).
		Build()
	if err != nil {
		return nil, err
	}

	resolver := sitemap.NewResolver(client.Transport(), sitemap.ResolverConfig{
		UserAgent:      gCfg.CrawlerConfig.UserAgent,
		RequestTimeout: gCfg.CrawlerConfig.RequestTimeout(),
		MaxBodySize:    int(gCfg.CrawlerConfig.MaxContentSizeBytes),
	}, appLogger)

	extractorCfg := extractor.NewDefaultExtractorConfig()
	if gCfg.CrawlerConfig.MaxConcurrency > 0 {
		extractorCfg.MaxConcurrency = gCfg.CrawlerConfig.MaxConcurrency
	}
	metadataExtractor := extractor.NewExtractor(client, extractorCfg, appLogger)

	store, err := datastore.NewSnapshotStoreBuilder(appLogger).
		WithStorageConfig(gCfg.StorageConfig).
		WithSheetName(gCfg.ReporterConfig.SheetName).
		Build()
	if err != nil {
		return nil, err
	}

	htmlReporter, err := reporter.NewHTMLReporter(gCfg.ReporterConfig, appLogger)
	if err != nil {
		return nil, err
	}

	var channels []notifier.Notifier
	if gCfg.NotificationConfig.Email.Enabled {
		emailNotifier, err := notifier.NewEmailNotifier(gCfg.NotificationConfig.Email, appLogger)
		if err != nil {
			return nil, err
		}
		channels = append(channels, emailNotifier)
	}
	if gCfg.NotificationConfig.DiscordWebhookURL != "" {
		discordNotifier, err := notifier.NewDiscordNotifier(gCfg.NotificationConfig, client, appLogger)
		if err != nil {
			return nil, err
		}
		channels = append(channels, discordNotifier)
	}
	notificationHelper := notifier.NewNotificationHelper(appLogger, channels...)
	appLogger.Info().Strs("channels", notificationHelper.Channels()).Msg("Notification channels configured")

	return orchestrator.NewOrchestrator(gCfg, orchestrator.Dependencies{
		Resolver:            resolver,
		Extractor:           metadataExtractor,
		Differ:              differ.NewMetadataDiffer(differ.DefaultDiffConfig(), appLogger),
		Store:               store,
		SpreadsheetReporter: reporter.NewSpreadsheetReporter(gCfg.ReporterConfig, appLogger),
		HTMLReporter:        htmlReporter,
		Notifier:            notificationHelper,
	}, appLogger)
}
