package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/firasbelhiba/4hacks-backend--sub000/internal/app"
	"github.com/firasbelhiba/4hacks-backend--sub000/internal/config"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		log.Fatalf("app: %v", err)
	}
	defer container.Close()

	<-ctx.Done()
	container.Logger.Info("shutting down")
}
