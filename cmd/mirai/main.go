package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mirai/internal/browser"
	"mirai/internal/config"
	"mirai/internal/logutils"
	"mirai/internal/orchestrator"
	"mirai/internal/provider"
	"mirai/internal/search"
	"mirai/internal/storage"
	"mirai/internal/store"
	"mirai/internal/tui"
	"mirai/internal/weather"
)

func main() {
	var (
		configPath string
		replMode   bool
		logLevel   string
	)
	flag.StringVar(&configPath, "config", "", "Path to config JSON/JSONC")
	flag.BoolVar(&replMode, "repl", false, "Run the plain line-based REPL instead of the TUI")
	flag.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}

	logger, logCloser, err := logutils.New(logLevel, filepath.Join(cfg.Storage.BaseDir, "mirai.log"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup logger failed: %v\n", err)
		os.Exit(1)
	}
	defer logCloser()

	// 启动时拉一次免费模型目录;失败时内部回退到固定模型对
	// Fetch the free-model catalog once at startup; the call falls back to
	// a fixed model pair on failure
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	models := provider.FetchFreeModels(ctx, cfg.Provider.CatalogURL, cfg.Provider.TimeoutMS)
	cancel()
	logger.Info().Int("models", len(models)).Msg("model catalog loaded")

	activity, err := storage.OpenActivityLog(filepath.Join(cfg.Storage.BaseDir, "activity.db"))
	if err != nil {
		// 活动日志是附加能力,打不开就不带 / The activity log is an extra;
		// run without it when it cannot open
		logger.Warn().Err(err).Msg("activity log unavailable")
		activity = nil
	} else {
		defer activity.Close()
	}

	orch := orchestrator.New(orchestrator.Options{
		Config: cfg,
		Completer: provider.NewOpenRouterClient(provider.ClientConfig{
			BaseURL:      cfg.Provider.BaseURL,
			APIKey:       cfg.Provider.APIKey,
			SystemPrompt: cfg.Provider.SystemPrompt,
			TimeoutMS:    cfg.Provider.TimeoutMS,
		}),
		Searcher: search.NewClient(search.Config{
			Endpoint:   cfg.Search.Endpoint,
			APIKey:     cfg.Search.APIKey,
			NumResults: cfg.Search.NumResults,
			TimeoutMS:  cfg.Search.TimeoutMS,
		}),
		Weather: weather.NewClient(weather.Config{
			Endpoint:  cfg.Weather.Endpoint,
			City:      cfg.Weather.City,
			TimeoutMS: cfg.Weather.TimeoutMS,
		}),
		Store:    store.New(cfg.Storage.BaseDir),
		Activity: activity,
		Launcher: browser.NewLauncher(cfg.Browser.PreferredPath),
		Models:   models,
		Logger:   logger,
	})

	if replMode {
		if err := runREPL(orch, filepath.Join(cfg.Storage.BaseDir, "repl.history")); err != nil {
			fmt.Fprintf(os.Stderr, "repl failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := tui.Run(orch); err != nil {
		fmt.Fprintf(os.Stderr, "tui failed: %v\n", err)
		os.Exit(1)
	}
}
