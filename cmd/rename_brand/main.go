package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"foodpipeline/brands"
	"foodpipeline/internal/bootstrap"
	"foodpipeline/internal/config"
	"foodpipeline/review"
)

func main() {
	var (
		from   = flag.String("from", "", "Current brand name in the catalog")
		to     = flag.String("to", "", "New canonical brand name")
		actor  = flag.String("actor", "rename_brand_cli", "Actor recorded in the audit trail")
		dryRun = flag.Bool("dry-run", false, "Show affected products without renaming")
	)
	flag.Parse()

	if *from == "" || *to == "" {
		fmt.Println("Usage: rename_brand -from <old_brand> -to <new_brand> [-actor <name>] [-dry-run]")
		os.Exit(1)
	}
	if *from == *to {
		log.Fatalf("old and new brand names are identical: %s", *from)
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

	products, err := db.ListProductsByBrand(ctx, *from)
	if err != nil {
		log.Fatalf("failed to list products of brand %s: %v", *from, err)
	}
	if len(products) == 0 {
		log.Fatalf("no products found for brand %q", *from)
	}

	newSlug := brands.DeriveSlug(*to)
	fmt.Printf("Brand rename: %q -> %q (slug %s), %d products affected\n", *from, *to, newSlug, len(products))

	if *dryRun {
		for _, p := range products {
			fmt.Printf("  %s -> %s\n", p.ProductKey, brands.RebuildProductKey(p.ProductKey, newSlug))
		}
		fmt.Println("Dry run: nothing was renamed")
		return
	}

	// Снимок значений до переименования пишется в локальное хранилище,
	// чтобы операцию можно было откатить вручную
	reviews, err := review.NewStore(cfg.ReviewDatabasePath)
	if err != nil {
		log.Fatalf("failed to open review store: %v", err)
	}
	defer reviews.Close()

	snapshotID, err := reviews.SaveRollbackSnapshot("brand_rename", map[string]interface{}{
		"old_brand": *from,
		"new_brand": *to,
		"products":  products,
	})
	if err != nil {
		log.Fatalf("failed to save rollback snapshot: %v", err)
	}

	result, err := db.RenameBrand(ctx, *from, *to, newSlug, *actor,
		func(oldKey string) string { return brands.RebuildProductKey(oldKey, newSlug) })
	if err != nil {
		log.Fatalf("rename failed (rollback snapshot %d preserved): %v", snapshotID, err)
	}

	fmt.Printf("\n=== Rename Results ===\n")
	fmt.Printf("Renamed: %d products\n", result.Renamed)
	fmt.Printf("Rollback snapshot: %d\n", snapshotID)
}
