package harvest

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"foodpipeline/database"
	"foodpipeline/snapshot"
)

// SourceConfig конфигурация одного сайта-источника
type SourceConfig struct {
	// Идентификатор источника (briantos, bozita, ...)
	Name string
	// Адреса страниц листинга
	ListingURLs []string
	// Бренд по умолчанию если селектор бренда отсутствует
	DefaultBrand string
	Selectors    Selectors
	Fetch        FetchOptions
	// Пауза между карточками поверх лимитера клиента
	PageDelay time.Duration
	// Максимум карточек за сессию, 0 без ограничения
	MaxProducts int
}

// SessionResult итог сессии сбора
type SessionResult struct {
	SessionID     string
	Source        string
	ListingsTotal int
	PagesFetched  int
	PagesFailed   int
	RowsStaged    int
	Duration      time.Duration
}

// Harvester оркестратор сессии сбора: листинги, карточки, снимки,
// строки стейджинга
type Harvester struct {
	client    *Client
	snapshots snapshot.Store
	db        *database.CatalogDB
	logger    *slog.Logger

	// После стольких временных сбоев подряд сессия прерывается
	failureThreshold int
}

// NewHarvester создает оркестратор сессии
func NewHarvester(client *Client, snapshots snapshot.Store, db *database.CatalogDB) (*Harvester, error) {
	if client == nil {
		return nil, fmt.Errorf("client is required")
	}
	if snapshots == nil {
		return nil, fmt.Errorf("snapshot store is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	return &Harvester{
		client:           client,
		snapshots:        snapshots,
		db:               db,
		logger:           slog.Default().With("component", "harvester"),
		failureThreshold: 5,
	}, nil
}

// Run выполняет сессию сбора по конфигурации источника. Сбой одной
// карточки не прерывает сессию, но серия временных сбоев подряд
// останавливает ее, чтобы не жечь квоту прокси впустую.
func (h *Harvester) Run(ctx context.Context, source SourceConfig) (*SessionResult, error) {
	if source.Name == "" {
		return nil, fmt.Errorf("source name is required")
	}
	if len(source.ListingURLs) == 0 {
		return nil, fmt.Errorf("source %s has no listing urls", source.Name)
	}

	start := time.Now()
	result := &SessionResult{
		SessionID: uuid.New().String(),
		Source:    source.Name,
	}

	h.logger.Info("Harvest session started",
		"session_id", result.SessionID,
		"source", source.Name,
		"listings", len(source.ListingURLs))

	links, err := h.collectProductLinks(ctx, source, result)
	if err != nil {
		return result, err
	}
	if source.MaxProducts > 0 && len(links) > source.MaxProducts {
		links = links[:source.MaxProducts]
	}

	consecutiveFailures := 0
	for i, link := range links {
		select {
		case <-ctx.Done():
			result.Duration = time.Since(start)
			return result, ctx.Err()
		default:
		}

		if i > 0 && source.PageDelay > 0 {
			time.Sleep(source.PageDelay)
		}

		if err := h.harvestProduct(ctx, source, result.SessionID, i, link); err != nil {
			result.PagesFailed++
			h.logger.Warn("Failed to harvest product page",
				"session_id", result.SessionID,
				"url", link,
				"error", err)

			if IsTerminal(err) {
				result.Duration = time.Since(start)
				return result, fmt.Errorf("terminal error on %s: %w", link, err)
			}
			consecutiveFailures++
			if consecutiveFailures >= h.failureThreshold {
				result.Duration = time.Since(start)
				return result, fmt.Errorf("aborting session after %d consecutive failures", consecutiveFailures)
			}
			continue
		}

		consecutiveFailures = 0
		result.PagesFetched++
		result.RowsStaged++
	}

	result.Duration = time.Since(start)
	h.logger.Info("Harvest session finished",
		"session_id", result.SessionID,
		"source", source.Name,
		"fetched", result.PagesFetched,
		"failed", result.PagesFailed,
		"staged", result.RowsStaged,
		"duration", result.Duration.String())

	return result, nil
}

func (h *Harvester) collectProductLinks(ctx context.Context, source SourceConfig, result *SessionResult) ([]string, error) {
	seen := make(map[string]struct{})
	var links []string

	for i, listingURL := range source.ListingURLs {
		body, err := h.client.Fetch(ctx, listingURL, source.Fetch)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch listing %s: %w", listingURL, err)
		}

		key := snapshot.Key(source.Name, result.SessionID, fmt.Sprintf("listing_%03d.html", i))
		if _, err := h.snapshots.Put(ctx, key, bytes.NewReader(body), "text/html"); err != nil {
			return nil, fmt.Errorf("failed to store listing snapshot: %w", err)
		}

		pageLinks, err := ParseProductLinks(body, listingURL, source.Selectors)
		if err != nil {
			return nil, err
		}
		for _, l := range pageLinks {
			if _, dup := seen[l]; dup {
				continue
			}
			seen[l] = struct{}{}
			links = append(links, l)
		}
		result.ListingsTotal++
	}

	h.logger.Info("Collected product links",
		"session_id", result.SessionID,
		"source", source.Name,
		"links", len(links))

	return links, nil
}

func (h *Harvester) harvestProduct(ctx context.Context, source SourceConfig, sessionID string, index int, link string) error {
	body, err := h.client.Fetch(ctx, link, source.Fetch)
	if err != nil {
		return err
	}

	key := snapshot.Key(source.Name, sessionID, fmt.Sprintf("product_%04d.html", index))
	if _, err := h.snapshots.Put(ctx, key, bytes.NewReader(body), "text/html"); err != nil {
		return fmt.Errorf("failed to store product snapshot: %w", err)
	}

	page, err := ParseProductPage(body, link, source.Selectors)
	if err != nil {
		return err
	}

	rawBrand := page.RawBrand
	if rawBrand == "" {
		rawBrand = source.DefaultBrand
	}

	row := &database.HarvestStagingRow{
		SessionID:   sessionID,
		Source:      source.Name,
		SourceURL:   link,
		RawBrand:    rawBrand,
		ProductName: page.Name,
		SnapshotKey: key,
	}
	if err := h.db.InsertHarvestStaging(ctx, row); err != nil {
		return err
	}

	return nil
}
