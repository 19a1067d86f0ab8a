package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aleister1102/doccrawler/internal/common/contextutils"
	"github.com/aleister1102/doccrawler/internal/config"
	"github.com/aleister1102/doccrawler/internal/crawler"
	"github.com/aleister1102/doccrawler/internal/extractor"
	"github.com/aleister1102/doccrawler/internal/logger"
	"github.com/aleister1102/doccrawler/internal/urlhandler"
	"github.com/rs/zerolog"
)

func main() {
	os.Exit(run(ParseFlags()))
}

func run(flags AppFlags) int {

	gCfg, err := config.LoadGlobalConfig(flags.GlobalConfigFile, zerolog.Nop())
	if err != nil {
		log.Fatalf("[FATAL] Main: Could not load global config using path '%s': %v", flags.GlobalConfigFile, err)
	}
	if err := config.ValidateConfig(gCfg); err != nil {
		log.Fatalf("[FATAL] Main: %v", err)
	}

	runID := time.Now().Format("20060102-150405")
	appLogger, err := logger.NewWithRunID(gCfg.LogConfig, runID)
	if err != nil {
		log.Fatalf("[FATAL] Main: Could not initialize logger: %v", err)
	}
	defer func() {
		if err := appLogger.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "closing log file: %v\n", err)
		}
	}()
	zLogger := *appLogger.GetZerolog()

	engine, err := newEngine(gCfg.URLEngineConfig, zLogger)
	if err != nil {
		zLogger.Error().Err(err).Msg("Could not initialize URL engine")
		return 1
	}

	if flags.CheckInput != "" {
		return check(flags, engine, zLogger)
	}
	return crawl(flags, gCfg, engine, zLogger)
}

func newEngine(cfg config.URLEngineConfig, zLogger zerolog.Logger) (*urlhandler.Engine, error) {
	security, err := urlhandler.NewSecurityConfig(cfg.SecurityOptions())
	if err != nil {
		return nil, err
	}
	return urlhandler.NewEngine(security, zLogger, urlhandler.WithCacheSize(cfg.CacheSize))
}

// check runs -check mode. Exit status is 1 if any URL was rejected.
func check(flags AppFlags, engine *urlhandler.Engine, zLogger zerolog.Logger) int {
	var input io.Reader = os.Stdin
	if flags.CheckInput != "-" {
		file, err := os.Open(flags.CheckInput)
		if err != nil {
			zLogger.Error().Err(err).Str("file", flags.CheckInput).Msg("Could not open check input")
			return 2
		}
		defer file.Close()
		input = file
	}

	rejected, err := runCheck(input, os.Stdout, engine, flags.CheckBase)
	if err != nil {
		zLogger.Error().Err(err).Msg("URL check failed")
		return 2
	}
	if rejected > 0 {
		return 1
	}
	return 0
}

func crawl(flags AppFlags, gCfg *config.GlobalConfig, engine *urlhandler.Engine, zLogger zerolog.Logger) int {
	seeds := append(append([]string(nil), gCfg.CrawlerConfig.SeedURLs...), flags.Seeds...)
	targetManager := urlhandler.NewTargetManager(engine, zLogger)
	targets, err := targetManager.LoadSeeds(flags.SeedFile, seeds)
	if err != nil {
		var seedErr *urlhandler.SeedError
		if errors.As(err, &seedErr) {
			fmt.Fprintf(os.Stderr, "[FATAL] invalid seed URL %q: %s\n", seedErr.Seed, seedErr.Kind)
		}
		zLogger.Error().Err(err).Msg("Could not load seed URLs")
		return 1
	}

	zLogger.Info().Strs("seeds", targetManager.GetTargetStrings(targets)).Msg("Loaded seed URLs")

	ext, err := extractor.NewLinkExtractor(engine, gCfg.ExtractorConfig, zLogger)
	if err != nil {
		zLogger.Error().Err(err).Msg("Could not initialize link extractor")
		return 1
	}
	cr, err := crawler.NewCrawler(&gCfg.CrawlerConfig, engine, ext, zLogger)
	if err != nil {
		zLogger.Error().Err(err).Msg("Could not initialize crawler")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := cr.Run(ctx, targets)
	if summary != nil {
		printSummary(os.Stdout, summary)
	}
	if err != nil {
		if contextutils.IsCancellationError(err) {
			zLogger.Warn().Msg("Crawl interrupted")
			return 130
		}
		zLogger.Error().Err(err).Msg("Crawl failed")
		return 1
	}
	return 0
}
