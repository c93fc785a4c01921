package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/routemethod/routemethod/internal/app/domain/chat"
	"github.com/routemethod/routemethod/internal/pkg/config"
	"github.com/routemethod/routemethod/internal/server"
	"github.com/routemethod/routemethod/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file, using environment variables")
	}

	if err := logger.Init(zapcore.InfoLevel, zap.String("service", "routemethod")); err != nil {
		return err
	}
	lg := logger.Log
	defer lg.Sync()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	otelShutdown, err := server.InitObservability("routemethod", ":9092", lg)
	if err != nil {
		return err
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			lg.Error("Failed to shutdown OpenTelemetry", zap.Error(err))
		}
	}()

	srv, err := server.New(cfg, lg)
	if err != nil {
		return err
	}
	defer srv.Close()

	streamer, err := chat.NewGeminiStreamer(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		return err
	}

	router := server.SetupRouter(cfg, srv.DBPool(), streamer, lg)
	if err := server.SetupAssets(router, Assets); err != nil {
		lg.Error("Failed to setup assets", zap.Error(err))
		return err
	}
	srv.SetRouter(router)

	server.StartPprofServer(":6060")

	httpServer := srv.HTTPServer()

	done := make(chan bool, 1)
	go server.GracefulShutdown(httpServer, lg, done)

	lg.Info("Server starting", zap.String("port", cfg.ServerPort))
	if err := httpServer.ListenAndServe(); err != nil {
		lg.Error("Server error", zap.Error(err))
	}

	<-done
	lg.Info("Graceful shutdown complete")

	return nil
}
