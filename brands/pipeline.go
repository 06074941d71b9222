package brands

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"foodpipeline/database"
	"foodpipeline/internal/metrics"
	"foodpipeline/review"
)

// ErrMsgPipelineStopped сообщение об остановке конвейера оператором
const ErrMsgPipelineStopped = "brand normalization stopped by operator"

// BatchResult итог пакетной нормализации брендов каталога
type BatchResult struct {
	TotalScanned int            `json:"total_scanned"`
	AutoApplied  int            `json:"auto_applied"`
	Queued       int            `json:"queued_for_review"`
	Skipped      int            `json:"skipped"`
	TierCounts   map[Tier]int   `json:"tier_counts"`
	Errors       []string       `json:"errors"`
	Duration     time.Duration  `json:"duration"`
}

// BatchNormalizer пакетный конвейер нормализации брендов каталога.
// Строки с ярусами exact/high применяются автоматически (одной
// транзакцией на строку, с аудитом и выученным алиасом), medium/low
// ставятся в очередь ручной проверки.
type BatchNormalizer struct {
	db       *database.CatalogDB
	reviews  *review.Store
	resolver *Resolver
	logger   *slog.Logger

	// Ограничение параллелизма обработки строк
	concurrency int
	// Выучивать ли алиасы для автоматически примененных разрешений
	learnAliases bool
	dryRun       bool
}

// BatchOption настройка пакетного конвейера
type BatchOption func(*BatchNormalizer)

// WithConcurrency задает ширину пула обработки строк
func WithConcurrency(n int) BatchOption {
	return func(bn *BatchNormalizer) {
		if n > 0 {
			bn.concurrency = n
		}
	}
}

// WithAliasLearning включает запись выученных алиасов
func WithAliasLearning(enabled bool) BatchOption {
	return func(bn *BatchNormalizer) { bn.learnAliases = enabled }
}

// WithDryRun отключает запись в каталог: конвейер только считает ярусы
func WithDryRun(enabled bool) BatchOption {
	return func(bn *BatchNormalizer) { bn.dryRun = enabled }
}

// NewBatchNormalizer создает пакетный конвейер
func NewBatchNormalizer(db *database.CatalogDB, reviews *review.Store, resolver *Resolver, opts ...BatchOption) *BatchNormalizer {
	bn := &BatchNormalizer{
		db:           db,
		reviews:      reviews,
		resolver:     resolver,
		logger:       slog.Default().With("component", "batch_normalizer"),
		concurrency:  10,
		learnAliases: true,
	}
	for _, opt := range opts {
		opt(bn)
	}
	return bn
}

// Run обрабатывает до limit неразрешенных строк каталога. Ошибки
// отдельных строк логируются и подсчитываются, обработка продолжается;
// отмена контекста останавливает конвейер между строками.
func (bn *BatchNormalizer) Run(ctx context.Context, limit int) (*BatchResult, error) {
	if bn.db == nil {
		return nil, fmt.Errorf("catalog db is nil")
	}
	if bn.resolver == nil {
		return nil, fmt.Errorf("resolver is nil")
	}

	start := time.Now()
	defer func() {
		metrics.PipelineDuration.Observe(time.Since(start).Seconds())
	}()

	result := &BatchResult{
		TierCounts: make(map[Tier]int),
		Errors:     []string{},
	}

	products, err := bn.db.ListUnresolvedProducts(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list unresolved products: %w", err)
	}

	result.TotalScanned = len(products)
	if len(products) == 0 {
		bn.logger.Info("No unresolved products to process")
		result.Duration = time.Since(start)
		return result, nil
	}

	bn.logger.Info("Starting batch brand normalization",
		"total", len(products),
		"concurrency", bn.concurrency,
		"dry_run", bn.dryRun)

	var mu sync.Mutex
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, bn.concurrency)

	for _, product := range products {
		select {
		case <-ctx.Done():
			// Счетчики читаются только после завершения запущенных воркеров
			wg.Wait()
			result.Errors = append(result.Errors, ErrMsgPipelineStopped)
			bn.logger.Info("Batch normalization stopped by context",
				"processed", result.AutoApplied+result.Queued+result.Skipped,
				"total", len(products))
			result.Duration = time.Since(start)
			return result, nil
		default:
		}

		wg.Add(1)
		semaphore <- struct{}{}

		go func(p *database.ProductRecord) {
			defer func() {
				if rec := recover(); rec != nil {
					bn.logger.Error("Panic while processing product",
						"product_key", p.ProductKey,
						"recovered", rec)
					mu.Lock()
					result.Errors = append(result.Errors, fmt.Sprintf("panic processing %s: %v", p.ProductKey, rec))
					mu.Unlock()
				}
				wg.Done()
				<-semaphore
			}()

			outcome, err := bn.processProduct(ctx, p)
			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				metrics.PipelineErrors.Inc()
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", p.ProductKey, err))
				bn.logger.Warn("Failed to process product",
					"product_key", p.ProductKey,
					"error", err.Error())
				return
			}

			result.TierCounts[outcome.match.Tier]++
			metrics.BrandResolutions.WithLabelValues(string(outcome.match.Tier)).Inc()
			switch outcome.action {
			case actionApplied:
				result.AutoApplied++
			case actionQueued:
				result.Queued++
			default:
				result.Skipped++
			}
		}(product)
	}

	wg.Wait()
	result.Duration = time.Since(start)

	bn.logger.Info("Completed batch brand normalization",
		"scanned", result.TotalScanned,
		"auto_applied", result.AutoApplied,
		"queued", result.Queued,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
		"duration_ms", result.Duration.Milliseconds())

	return result, nil
}

type rowAction int

const (
	actionSkipped rowAction = iota
	actionApplied
	actionQueued
)

type rowOutcome struct {
	match  Match
	action rowAction
}

func (bn *BatchNormalizer) processProduct(ctx context.Context, p *database.ProductRecord) (*rowOutcome, error) {
	match := bn.resolver.ResolveCanonical(p.Brand, p.ProductName)

	if match.Tier == TierUnmapped {
		// Политика пропуска: бренд остается как есть
		bn.logger.Debug("Brand left unresolved",
			"product_key", p.ProductKey,
			"raw_brand", p.Brand)
		return &rowOutcome{match: match, action: actionSkipped}, nil
	}

	if !match.Tier.AutoApply() {
		if bn.dryRun || bn.reviews == nil {
			return &rowOutcome{match: match, action: actionQueued}, nil
		}
		err := bn.reviews.Enqueue(&review.Item{
			ProductKey:  p.ProductKey,
			RawBrand:    p.Brand,
			ProductName: p.ProductName,
			Candidate:   match.Canonical,
			Tier:        string(match.Tier),
			Score:       match.Score,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to queue for review: %w", err)
		}
		return &rowOutcome{match: match, action: actionQueued}, nil
	}

	// Уже канонический бренд с тем же slug — обновлять нечего
	if p.Brand == match.Canonical && p.BrandSlug == match.Slug && p.BrandConfidence == string(match.Tier) {
		return &rowOutcome{match: match, action: actionSkipped}, nil
	}

	if bn.dryRun {
		return &rowOutcome{match: match, action: actionApplied}, nil
	}

	err := bn.db.ApplyBrandResolution(ctx, p.ProductKey, match.Canonical, match.Slug,
		string(match.Tier), "batch_normalizer",
		func(oldKey string) string { return RebuildProductKey(oldKey, match.Slug) })
	if err != nil {
		return nil, err
	}

	// Запоминаем удачное разрешение, чтобы следующий прогон нашел его
	// точным поиском по алиасу
	if bn.learnAliases && match.Method == "fuzzy" {
		if err := bn.db.LearnAlias(ctx, Normalize(p.Brand), match.Canonical); err != nil {
			bn.logger.Warn("Failed to learn alias",
				"alias", Normalize(p.Brand),
				"canonical", match.Canonical,
				"error", err.Error())
		}
	}

	return &rowOutcome{match: match, action: actionApplied}, nil
}
