package main

import (
	"context"
	"embed"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"rankboard/adapters/excel"
	"rankboard/app"
	"rankboard/internal/config"
	"rankboard/internal/logging"
	"rankboard/internal/pages"
	"rankboard/ports"
	"rankboard/ui"
)

//go:embed ui/templates ui/static
var embeddedFiles embed.FS

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, closeLogs := logging.Setup(logging.Options{
		Level:  appConfig.Logging.Level,
		Format: appConfig.Logging.Format,
		SeqURL: appConfig.Logging.SeqURL,
	})
	defer closeLogs()

	site, err := pages.Load(appConfig.Data.PagesFile)
	if err != nil {
		logger.Error("failed to load page definitions", "error", err)
		closeLogs()
		os.Exit(1)
	}

	var loader ports.TableLoader = excel.NewReader(logger)
	var cache *excel.Cache
	if appConfig.Data.CacheEnabled {
		cache = excel.NewCache()
		loader = excel.NewCachedLoader(loader, cache, logger)
	}

	service := app.NewDashboardService(loader, site, appConfig.Data.WorkbookDir, app.Defaults{
		SchemaMode:   appConfig.Render.SchemaMode,
		CoercionMode: appConfig.Render.CoercionMode,
		Missing:      appConfig.Render.Missing,
	}, logger)

	server, err := ui.NewServer(ui.Options{
		Service: service,
		Cache:   cache,
		Assets:  embeddedFiles,
		GinMode: appConfig.Server.GinMode,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialize UI server", "error", err)
		closeLogs()
		os.Exit(1)
	}

	logger.Info("dashboard configured",
		"pages", len(site.Pages),
		"workbook_dir", appConfig.Data.WorkbookDir,
		"cache", appConfig.Data.CacheEnabled,
		"schema_mode", string(appConfig.Render.SchemaMode),
		"coercion_mode", string(appConfig.Render.CoercionMode))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, appConfig.Addr()); err != nil {
		logger.Error("server stopped", "error", err)
		closeLogs()
		os.Exit(1)
	}
}
