package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"foodpipeline/brands"
	"foodpipeline/importer"
	"foodpipeline/internal/bootstrap"
	"foodpipeline/internal/config"
)

func main() {
	var (
		brandsPath  = flag.String("brands", "", "Path to the canonical brands Markdown file (default from config)")
		aliasesPath = flag.String("aliases", "", "Path to the curated brand variants JSON file (default from config)")
		verbose     = flag.Bool("verbose", false, "Verbose output")
	)
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	bootstrap.SetupLogger(cfg)

	if *brandsPath != "" {
		cfg.CanonicalBrandsPath = *brandsPath
	}
	if *aliasesPath != "" {
		cfg.BrandVariantsPath = *aliasesPath
	}

	ctx := context.Background()
	db, err := bootstrap.OpenCatalog(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open catalog: %v", err)
	}
	defer db.Close()

	names, err := importer.LoadCanonicalBrandsFile(cfg.CanonicalBrandsPath)
	if err != nil {
		log.Fatalf("failed to load canonical brands: %v", err)
	}
	canonical, err := brands.NewCanonicalSet(names)
	if err != nil {
		log.Fatalf("failed to build canonical set: %v", err)
	}
	if *verbose {
		log.Printf("Loaded %d canonical brands from %s", canonical.Len(), cfg.CanonicalBrandsPath)
	}

	variants, err := importer.LoadCuratedVariantsFile(cfg.BrandVariantsPath)
	if err != nil {
		log.Fatalf("failed to load curated variants: %v", err)
	}

	imported := 0
	skipped := 0
	for variant, target := range variants {
		if !canonical.Contains(target) {
			log.Printf("skipping variant %q: target %q is not a canonical brand", variant, target)
			skipped++
			continue
		}
		if err := db.UpsertAlias(ctx, brands.Normalize(variant), target); err != nil {
			log.Fatalf("failed to upsert alias %q: %v", variant, err)
		}
		imported++
	}

	fmt.Printf("\n=== Brand Import Results ===\n")
	fmt.Printf("Canonical brands: %d\n", canonical.Len())
	fmt.Printf("Aliases imported: %d\n", imported)
	fmt.Printf("Aliases skipped: %d\n", skipped)
}
