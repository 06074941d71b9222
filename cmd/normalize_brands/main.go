package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodpipeline/brands"
	"foodpipeline/internal/bootstrap"
	"foodpipeline/internal/config"
	"foodpipeline/review"
)

func main() {
	var (
		limit      = flag.Int("limit", 0, "Maximum number of unresolved products to process (0 = all)")
		dryRun     = flag.Bool("dry-run", false, "Analyze changes without writing them to the catalog")
		reportPath = flag.String("report", "", "Write a Markdown run report to this path")
	)
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	bootstrap.SetupLogger(cfg)

	// Ctrl+C останавливает конвейер между строками
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

	normalizer := brands.NewBatchNormalizer(db, reviews, resolver,
		brands.WithConcurrency(cfg.PipelineConcurrency),
		brands.WithAliasLearning(cfg.AliasLearning),
		brands.WithDryRun(*dryRun))

	result, err := normalizer.Run(ctx, *limit)
	if err != nil {
		log.Fatalf("normalization failed: %v", err)
	}

	fmt.Printf("\n--- Brand Normalization ---\n")
	fmt.Printf("Dry Run: %t\n", *dryRun)
	fmt.Printf("Scanned: %d\n", result.TotalScanned)
	fmt.Printf("Auto-applied: %d\n", result.AutoApplied)
	fmt.Printf("Queued for review: %d\n", result.Queued)
	fmt.Printf("Skipped: %d\n", result.Skipped)
	fmt.Printf("Errors: %d\n", len(result.Errors))
	fmt.Printf("Duration: %s\n", result.Duration.Round(time.Millisecond))
	for tier, count := range result.TierCounts {
		fmt.Printf("  %s: %d\n", tier, count)
	}

	if *reportPath != "" {
		report := brands.GenerateRunReport(result, time.Now())
		if err := os.WriteFile(*reportPath, []byte(report), 0644); err != nil {
			log.Fatalf("failed to write report: %v", err)
		}
		fmt.Printf("Report written to %s\n", *reportPath)
	}
}
