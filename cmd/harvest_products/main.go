package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"foodpipeline/harvest"
	"foodpipeline/internal/bootstrap"
	"foodpipeline/internal/config"
	"foodpipeline/snapshot"
)

// sourceFile формат файла описания источников
type sourceFile struct {
	Sources []sourceEntry `json:"sources"`
}

type sourceEntry struct {
	Name         string   `json:"name"`
	ListingURLs  []string `json:"listing_urls"`
	DefaultBrand string   `json:"default_brand"`
	RenderJS     bool     `json:"render_js"`
	Stealth      bool     `json:"stealth"`
	PageDelayMS  int      `json:"page_delay_ms"`
	MaxProducts  int      `json:"max_products"`
	Selectors    struct {
		ProductLink string `json:"product_link"`
		ProductName string `json:"product_name"`
		Brand       string `json:"brand"`
		Ingredients string `json:"ingredients"`
		Nutrition   string `json:"nutrition"`
		Price       string `json:"price"`
	} `json:"selectors"`
}

func main() {
	var (
		sourcesPath = flag.String("sources", "data/harvest-sources.json", "Path to the harvest sources JSON file")
		only        = flag.String("source", "", "Harvest only the named source")
	)
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	bootstrap.SetupLogger(cfg)

	if cfg.Harvest.APIKey == "" {
		log.Fatalf("SCRAPINGBEE_API_KEY is not set")
	}

	sources, err := loadSources(*sourcesPath)
	if err != nil {
		log.Fatalf("failed to load sources: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := bootstrap.OpenCatalog(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open catalog: %v", err)
	}
	defer db.Close()

	snapshots, err := snapshot.Open(ctx)
	if err != nil {
		log.Fatalf("failed to open snapshot store: %v", err)
	}

	client, err := harvest.NewClient(harvest.ClientConfig{
		APIKey:       cfg.Harvest.APIKey,
		Timeout:      cfg.Harvest.Timeout,
		RateLimit:    rate.Every(cfg.Harvest.RequestInterval),
		MaxRetries:   cfg.Harvest.MaxRetries,
		RetryBackoff: cfg.Harvest.RetryBackoff,
	})
	if err != nil {
		log.Fatalf("failed to create harvest client: %v", err)
	}

	harvester, err := harvest.NewHarvester(client, snapshots, db)
	if err != nil {
		log.Fatalf("failed to create harvester: %v", err)
	}

	ran := 0
	for _, entry := range sources {
		if *only != "" && entry.Name != *only {
			continue
		}

		source := harvest.SourceConfig{
			Name:         entry.Name,
			ListingURLs:  entry.ListingURLs,
			DefaultBrand: entry.DefaultBrand,
			Selectors: harvest.Selectors{
				ProductLink: entry.Selectors.ProductLink,
				ProductName: entry.Selectors.ProductName,
				Brand:       entry.Selectors.Brand,
				Ingredients: entry.Selectors.Ingredients,
				Nutrition:   entry.Selectors.Nutrition,
				Price:       entry.Selectors.Price,
			},
			Fetch: harvest.FetchOptions{
				CountryCode: cfg.Harvest.CountryCode,
				Stealth:     entry.Stealth || cfg.Harvest.Stealth,
				RenderJS:    entry.RenderJS,
			},
			PageDelay:   time.Duration(entry.PageDelayMS) * time.Millisecond,
			MaxProducts: entry.MaxProducts,
		}

		result, err := harvester.Run(ctx, source)
		if result != nil {
			fmt.Printf("\n=== Harvest: %s ===\n", result.Source)
			fmt.Printf("Session: %s\n", result.SessionID)
			fmt.Printf("Listings: %d\n", result.ListingsTotal)
			fmt.Printf("Pages fetched: %d\n", result.PagesFetched)
			fmt.Printf("Pages failed: %d\n", result.PagesFailed)
			fmt.Printf("Rows staged: %d\n", result.RowsStaged)
			fmt.Printf("Duration: %s\n", result.Duration.Round(time.Millisecond))
		}
		if err != nil {
			log.Fatalf("harvest of %s failed: %v", entry.Name, err)
		}
		ran++
	}

	if ran == 0 {
		log.Fatalf("no sources matched %q", *only)
	}
}

func loadSources(path string) ([]sourceEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f sourceFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(f.Sources) == 0 {
		return nil, fmt.Errorf("no sources defined in %s", path)
	}

	return f.Sources, nil
}
