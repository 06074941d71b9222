package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"foodpipeline/internal/bootstrap"
	"foodpipeline/internal/config"
	"foodpipeline/quality"
)

func main() {
	var (
		format  = flag.String("format", "md", "Report format: md, csv or xlsx")
		outPath = flag.String("out", "", "Output file path (stdout for md/csv when empty)")
		publish = flag.Bool("publish", false, "Publish brands that pass the gate to the prod table")
	)
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	bootstrap.SetupLogger(cfg)

	ctx := context.Background()
	db, err := bootstrap.OpenCatalog(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open catalog: %v", err)
	}
	defer db.Close()

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

	report, err := gate.Evaluate(ctx)
	if err != nil {
		log.Fatalf("failed to evaluate quality gate: %v", err)
	}

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatalf("failed to create output file: %v", err)
		}
		defer f.Close()
		out = f
	} else if *format == "xlsx" {
		log.Fatalf("xlsx format requires -out")
	}

	switch *format {
	case "md":
		err = quality.WriteMarkdown(out, report)
	case "csv":
		err = quality.WriteCSV(out, report)
	case "xlsx":
		err = quality.WriteExcel(out, report)
	default:
		log.Fatalf("unknown format %q (valid: md, csv, xlsx)", *format)
	}
	if err != nil {
		log.Fatalf("failed to write report: %v", err)
	}

	if *publish {
		published, errs := gate.PublishReady(ctx, report)
		fmt.Fprintf(os.Stderr, "\nPublished %d of %d ready brands\n", published, report.ReadyCount)
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  publish error: %v\n", e)
		}
		if len(errs) > 0 {
			os.Exit(1)
		}
	}
}
