package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodpipeline/internal/bootstrap"
	"foodpipeline/internal/config"
	"foodpipeline/quality"
	"foodpipeline/review"
	"foodpipeline/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	bootstrap.SetupLogger(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := bootstrap.OpenCatalog(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open catalog: %v", err)
	}
	defer db.Close()

	reviews, err := review.NewStore(cfg.ReviewDatabasePath)
	if err != nil {
		log.Fatalf("failed to open review store: %v", err)
	}
	defer reviews.Close()

	resolver, err := bootstrap.BuildResolver(ctx, cfg, db)
	if err != nil {
		log.Fatalf("failed to build resolver: %v", err)
	}

	gate, err := quality.NewGate(db, quality.GateThresholds{
		Ingredients: cfg.Quality.IngredientsPct,
		Form:        cfg.Quality.FormPct,
		LifeStage:   cfg.Quality.LifeStagePct,
		Kcal:        cfg.Quality.KcalPct,
		MinProducts: cfg.Quality.MinProducts,
	})
	if err != nil {
		log.Fatalf("failed to create quality gate: %v", err)
	}

	srv, err := server.NewServer(cfg.Port, resolver, reviews, db, gate)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server failed: %v", err)
		}
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
			os.Exit(1)
		}
	}
}
