package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"foodpipeline/importer"
	"foodpipeline/internal/bootstrap"
	"foodpipeline/internal/config"
)

func main() {
	var (
		filePath = flag.String("file", "", "Path to the products CSV file")
		source   = flag.String("source", "", "Source identifier for provenance (e.g. allaboutdogfood)")
		win1252  = flag.Bool("windows1252", false, "Decode the file as Windows-1252 instead of UTF-8")
		dryRun   = flag.Bool("dry-run", false, "Parse and resolve without writing to the catalog")
	)
	flag.Parse()

	if *filePath == "" || *source == "" {
		fmt.Println("Usage: import_products -file <path_to_csv> -source <source_id> [-windows1252] [-dry-run]")
		os.Exit(1)
	}
	if _, err := os.Stat(*filePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Fatalf("File not found: %s", *filePath)
		}
		log.Fatalf("Error checking file %s: %v", *filePath, err)
	}

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

	resolver, err := bootstrap.BuildResolver(ctx, cfg, db)
	if err != nil {
		log.Fatalf("failed to build resolver: %v", err)
	}

	var opts []importer.ImporterOption
	if *win1252 {
		opts = append(opts, importer.WithWindows1252())
	}
	imp := importer.NewProductCSVImporter(db, resolver, *source, opts...)

	result, err := imp.ImportFile(ctx, *filePath, *dryRun)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	fmt.Printf("\n=== Product Import Results ===\n")
	fmt.Printf("Total rows: %d\n", result.TotalRows)
	fmt.Printf("Imported: %d\n", result.Imported)
	fmt.Printf("Skipped: %d\n", result.SkippedRows)
	fmt.Printf("Unmapped brands: %d\n", result.UnmappedRows)
	fmt.Printf("Errors: %d\n", len(result.Errors))
	for _, e := range result.Errors {
		fmt.Printf("  - %s\n", e)
	}
	if *dryRun {
		fmt.Println("Dry run: nothing was written to the catalog")
	}
}
