// Package app wires configuration into the scrapers, storage and pipeline shared by both binaries.
package app

import (
	"fmt"

	"go-job-trend-analyzer/internal/config"
	"go-job-trend-analyzer/internal/dashboard"
	"go-job-trend-analyzer/internal/logger"
	"go-job-trend-analyzer/internal/pipeline"
	"go-job-trend-analyzer/internal/scraper"
	"go-job-trend-analyzer/internal/scraper/indeed"
	"go-job-trend-analyzer/internal/scraper/linkedin"
	"go-job-trend-analyzer/internal/storage"
	"go-job-trend-analyzer/internal/telegram"
	"go-job-trend-analyzer/utils"
)

type App struct {
	Config   *config.Config
	Log      logger.Logger
	Store    *storage.Store
	Loader   *dashboard.Loader
	Pipeline *pipeline.Pipeline
}

// New builds the application from cfg. Telegram is optional: a bot that fails to
// initialise is logged and skipped.
func New(cfg *config.Config, log logger.Logger) (*App, error) {
	store := storage.NewStore(cfg.DataPath)
	loader := dashboard.NewLoader(store, cfg.CacheTTL, log)

	indeedScraper, err := indeed.NewIndeedScraper(cfg, log)
	if err != nil {
		return nil, err
	}

	var linkedinOpts []linkedin.Option
	if cfg.LinkedIn.ScreenshotDir != "" {
		shots, err := utils.NewScreenShotDebugger(cfg.LinkedIn.ScreenshotDir, log)
		if err != nil {
			return nil, fmt.Errorf("init screenshots: %w", err)
		}
		linkedinOpts = append(linkedinOpts, linkedin.WithScreenshots(shots))
	}

	scrapers := []scraper.Scraper{
		indeedScraper,
		linkedin.NewLinkedInScraper(cfg, log, linkedinOpts...),
	}

	var opts []pipeline.Option
	if cfg.Telegram.Enabled() {
		bot, err := telegram.NewBot(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			log.Warn("Telegram notifications disabled", logger.Error(err))
		} else {
			opts = append(opts, pipeline.WithNotifier(bot))
			log.Info("Telegram notifications enabled")
		}
	}

	log.Info("Application ready",
		logger.String("data_path", cfg.DataPath),
		logger.Bool("headless", cfg.LinkedIn.IsHeadless()),
		logger.Bool("notifications", len(opts) > 0),
	)

	return &App{
		Config:   cfg,
		Log:      log,
		Store:    store,
		Loader:   loader,
		Pipeline: pipeline.New(scrapers, store, loader, log, opts...),
	}, nil
}

// Load reads the config at path and builds the logger and the application.
func Load(path string) (*App, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	return New(cfg, log)
}
