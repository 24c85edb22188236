package main

import (
	"context"
	"embed"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"goeda/adapters/excel"
	"goeda/adapters/render"
	"goeda/adapters/tabular"
	"goeda/internal/config"
	"goeda/internal/errors"
	"goeda/internal/report"
	"goeda/internal/session"
	"goeda/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

//go:embed ui/templates/** ui/static/*
var embeddedFiles embed.FS

// preloadDataset stores DATA_FILE so the dashboard has something to show on boot
func preloadDataset(ctx context.Context, path string, loader *tabular.Loader, store *session.MemoryStore) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	table, err := loader.Load(path, f)
	if err != nil {
		return "", errors.Wrapf(err, "load %s", path)
	}
	return store.Put(ctx, table)
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := session.NewMemoryStore(appConfig.Session.TTL, appConfig.Session.MaxDatasets)
	go store.Run(ctx, time.Minute)

	loader := tabular.NewLoader(excel.DefaultReaderConfig())
	renderer := render.NewRenderer(appConfig.Charts.WidthCm, appConfig.Charts.HeightCm)

	if appConfig.Data.File != "" {
		id, err := preloadDataset(ctx, appConfig.Data.File, loader, store)
		if err != nil {
			log.Fatalf("Failed to preload dataset: %v", err)
		}
		log.Printf("📊 Preloaded %s: http://localhost:%s/datasets/%s", appConfig.Data.File, appConfig.Server.Port, id)
	}

	server := ui.NewServer(embeddedFiles, ui.Options{
		Store:     store,
		Loader:    loader,
		Renderer:  renderer,
		Reports:   report.NewBuilder(renderer, appConfig.Report.Workers),
		MaxUpload: appConfig.Upload.MaxBytes,
	})
	if err := server.Initialize(); err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	// Start pprof server for performance profiling
	if appConfig.Profiling.Enabled {
		go func() {
			log.Printf("🚀 Performance profiling server starting on :%s", appConfig.Profiling.Port)
			log.Printf("💡 View profiles: go tool pprof -http=:8082 http://localhost:%s/debug/pprof/profile?seconds=30", appConfig.Profiling.Port)
			if err := http.ListenAndServe(":"+appConfig.Profiling.Port, nil); err != nil {
				log.Printf("❌ pprof server failed: %v", err)
			}
		}()
	}

	log.Printf("🚀 Starting goeda dashboard on port %s", appConfig.Server.Port)
	log.Fatal(server.Start(":" + appConfig.Server.Port))
}
