// Package quality содержит гейт готовности каталога к публикации:
// проверка покрытия полей по брендам и вердикт food-ready.
package quality

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"foodpipeline/database"
)

// GateThresholds минимальные проценты покрытия полей для публикации бренда
type GateThresholds struct {
	Ingredients float64 `json:"ingredients"`
	Form        float64 `json:"form"`
	LifeStage   float64 `json:"life_stage"`
	Kcal        float64 `json:"kcal"`
	// Минимум записей бренда, маленькие выборки не публикуются
	MinProducts int `json:"min_products"`
}

// DefaultThresholds пороги гейта по умолчанию
func DefaultThresholds() GateThresholds {
	return GateThresholds{
		Ingredients: 85.0,
		Form:        90.0,
		LifeStage:   90.0,
		Kcal:        70.0,
		MinProducts: 5,
	}
}

// BrandVerdict результат проверки одного бренда
type BrandVerdict struct {
	Coverage *database.BrandCoverage `json:"coverage"`
	Ready    bool                    `json:"ready"`
	// Человекочитаемые причины отказа, пусто если бренд готов
	Failures []string `json:"failures,omitempty"`
}

// GateReport итог прогона гейта по каталогу
type GateReport struct {
	Thresholds  GateThresholds  `json:"thresholds"`
	Verdicts    []*BrandVerdict `json:"verdicts"`
	ReadyCount  int             `json:"ready_count"`
	TotalBrands int             `json:"total_brands"`
}

// Gate гейт качества каталога
type Gate struct {
	db         *database.CatalogDB
	thresholds GateThresholds
	logger     *slog.Logger
}

// NewGate создает гейт качества
func NewGate(db *database.CatalogDB, thresholds GateThresholds) (*Gate, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	return &Gate{
		db:         db,
		thresholds: thresholds,
		logger:     slog.Default().With("component", "quality_gate"),
	}, nil
}

// Evaluate считает покрытие по всем брендам и выносит вердикты
func (g *Gate) Evaluate(ctx context.Context) (*GateReport, error) {
	coverage, err := g.db.GetBrandCoverage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load brand coverage: %w", err)
	}

	report := &GateReport{
		Thresholds:  g.thresholds,
		TotalBrands: len(coverage),
	}
	for _, c := range coverage {
		verdict := EvaluateBrand(c, g.thresholds)
		report.Verdicts = append(report.Verdicts, verdict)
		if verdict.Ready {
			report.ReadyCount++
		}
	}

	// Готовые бренды первыми, внутри группы по алфавиту
	sort.SliceStable(report.Verdicts, func(i, j int) bool {
		if report.Verdicts[i].Ready != report.Verdicts[j].Ready {
			return report.Verdicts[i].Ready
		}
		return report.Verdicts[i].Coverage.Brand < report.Verdicts[j].Coverage.Brand
	})

	g.logger.Info("Quality gate evaluated",
		"brands", report.TotalBrands,
		"ready", report.ReadyCount)

	return report, nil
}

// EvaluateBrand проверяет покрытие одного бренда против порогов
func EvaluateBrand(c *database.BrandCoverage, t GateThresholds) *BrandVerdict {
	verdict := &BrandVerdict{Coverage: c}

	if c.TotalProducts < t.MinProducts {
		verdict.Failures = append(verdict.Failures,
			fmt.Sprintf("only %d products, need at least %d", c.TotalProducts, t.MinProducts))
	}
	if c.IngredientsCoverage < t.Ingredients {
		verdict.Failures = append(verdict.Failures,
			fmt.Sprintf("ingredients coverage %.1f%% below %.1f%%", c.IngredientsCoverage, t.Ingredients))
	}
	if c.FormCoverage < t.Form {
		verdict.Failures = append(verdict.Failures,
			fmt.Sprintf("form coverage %.1f%% below %.1f%%", c.FormCoverage, t.Form))
	}
	if c.LifeStageCoverage < t.LifeStage {
		verdict.Failures = append(verdict.Failures,
			fmt.Sprintf("life stage coverage %.1f%% below %.1f%%", c.LifeStageCoverage, t.LifeStage))
	}
	if c.KcalCoverage < t.Kcal {
		verdict.Failures = append(verdict.Failures,
			fmt.Sprintf("kcal coverage %.1f%% below %.1f%%", c.KcalCoverage, t.Kcal))
	}

	verdict.Ready = len(verdict.Failures) == 0
	return verdict
}

// PublishReady публикует готовые бренды: предпросмотр заполняется из
// каталога, затем строки переносятся в прод. Сбой одного бренда не
// прерывает публикацию остальных.
func (g *Gate) PublishReady(ctx context.Context, report *GateReport) (published int, errs []error) {
	for _, v := range report.Verdicts {
		if !v.Ready {
			continue
		}
		select {
		case <-ctx.Done():
			errs = append(errs, ctx.Err())
			return published, errs
		default:
		}

		brand := v.Coverage.Brand
		if _, err := g.db.PublishBrandToPreview(ctx, brand); err != nil {
			errs = append(errs, fmt.Errorf("brand %s: %w", brand, err))
			continue
		}
		rows, err := g.db.PromoteBrandToProd(ctx, brand)
		if err != nil {
			errs = append(errs, fmt.Errorf("brand %s: %w", brand, err))
			continue
		}

		g.logger.Info("Brand published", "brand", brand, "rows", rows)
		published++
	}

	return published, errs
}
