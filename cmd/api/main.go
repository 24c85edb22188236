package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"goeda/adapters/api"
	"goeda/adapters/excel"
	"goeda/adapters/render"
	"goeda/adapters/tabular"
	"goeda/internal/config"
	"goeda/internal/session"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := session.NewMemoryStore(appConfig.Session.TTL, appConfig.Session.MaxDatasets)
	go store.Run(ctx, time.Minute)

	server := api.NewServer(api.Config{
		Store:     store,
		Loader:    tabular.NewLoader(excel.DefaultReaderConfig()),
		Renderer:  render.NewRenderer(appConfig.Charts.WidthCm, appConfig.Charts.HeightCm),
		MaxUpload: appConfig.Upload.MaxBytes,
	})

	log.Fatal(server.Start(":" + appConfig.API.Port))
}
