package quality

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"foodpipeline/database"
)

func readyCoverage(brand string) *database.BrandCoverage {
	return &database.BrandCoverage{
		Brand:               brand,
		TotalProducts:       40,
		IngredientsCoverage: 95.0,
		FormCoverage:        98.0,
		LifeStageCoverage:   96.0,
		KcalCoverage:        80.0,
	}
}

func TestEvaluateBrand(t *testing.T) {
	thresholds := DefaultThresholds()

	tests := []struct {
		name         string
		coverage     *database.BrandCoverage
		ready        bool
		failureCount int
		failureHint  string
	}{
		{
			name:     "all thresholds met",
			coverage: readyCoverage("Royal Canin"),
			ready:    true,
		},
		{
			name: "too few products",
			coverage: &database.BrandCoverage{
				Brand:               "Barkin Bistro",
				TotalProducts:       3,
				IngredientsCoverage: 100,
				FormCoverage:        100,
				LifeStageCoverage:   100,
				KcalCoverage:        100,
			},
			ready:        false,
			failureCount: 1,
			failureHint:  "only 3 products",
		},
		{
			name: "ingredients below threshold",
			coverage: &database.BrandCoverage{
				Brand:               "Acana",
				TotalProducts:       20,
				IngredientsCoverage: 60.0,
				FormCoverage:        95.0,
				LifeStageCoverage:   95.0,
				KcalCoverage:        75.0,
			},
			ready:        false,
			failureCount: 1,
			failureHint:  "ingredients coverage 60.0% below 85.0%",
		},
		{
			name: "multiple failures accumulate",
			coverage: &database.BrandCoverage{
				Brand:         "Mystery",
				TotalProducts: 2,
			},
			ready:        false,
			failureCount: 5,
		},
		{
			name: "coverage exactly at threshold passes",
			coverage: &database.BrandCoverage{
				Brand:               "Skinner's",
				TotalProducts:       5,
				IngredientsCoverage: 85.0,
				FormCoverage:        90.0,
				LifeStageCoverage:   90.0,
				KcalCoverage:        70.0,
			},
			ready: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := EvaluateBrand(tt.coverage, thresholds)
			if verdict.Ready != tt.ready {
				t.Errorf("ready = %v, want %v (failures: %v)", verdict.Ready, tt.ready, verdict.Failures)
			}
			if len(verdict.Failures) != tt.failureCount {
				t.Errorf("failures = %d, want %d: %v", len(verdict.Failures), tt.failureCount, verdict.Failures)
			}
			if tt.failureHint != "" {
				found := false
				for _, f := range verdict.Failures {
					if strings.Contains(f, tt.failureHint) {
						found = true
					}
				}
				if !found {
					t.Errorf("no failure containing %q in %v", tt.failureHint, verdict.Failures)
				}
			}
		})
	}
}

func coverageRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"brand", "total", "ingredients_pct", "form_pct", "life_stage_pct", "kcal_pct",
	})
}

func newTestGate(t *testing.T) (*Gate, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	db := database.NewCatalogDBFromConn(conn)
	gate, err := NewGate(db, DefaultThresholds())
	if err != nil {
		t.Fatalf("NewGate failed: %v", err)
	}
	return gate, mock
}

func TestEvaluateSortsReadyFirst(t *testing.T) {
	gate, mock := newTestGate(t)

	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY brand")).WillReturnRows(coverageRows().
		AddRow("Wainwright's", 2, 100.0, 100.0, 100.0, 100.0).
		AddRow("Royal Canin", 40, 95.0, 98.0, 96.0, 80.0).
		AddRow("Acana", 20, 95.0, 98.0, 96.0, 80.0))

	report, err := gate.Evaluate(context.Background())
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if report.TotalBrands != 3 || report.ReadyCount != 2 {
		t.Errorf("total = %d ready = %d, want 3 and 2", report.TotalBrands, report.ReadyCount)
	}

	var order []string
	for _, v := range report.Verdicts {
		order = append(order, v.Coverage.Brand)
	}
	expected := []string{"Acana", "Royal Canin", "Wainwright's"}
	for i, brand := range expected {
		if order[i] != brand {
			t.Errorf("verdict order = %v, want %v", order, expected)
			break
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPublishReadySkipsFailedBrand(t *testing.T) {
	gate, mock := newTestGate(t)

	report := &GateReport{
		Verdicts: []*BrandVerdict{
			{Coverage: readyCoverage("Acana"), Ready: true},
			{Coverage: readyCoverage("Royal Canin"), Ready: true},
			{Coverage: &database.BrandCoverage{Brand: "Mystery", TotalProducts: 1}, Ready: false},
		},
	}

	// Первый бренд падает на предпросмотре, второй публикуется
	mock.ExpectExec("INSERT INTO foods_published_preview").
		WithArgs("Acana").
		WillReturnError(context.DeadlineExceeded)

	mock.ExpectExec("INSERT INTO foods_published_preview").
		WithArgs("Royal Canin").
		WillReturnResult(sqlmock.NewResult(0, 40))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO foods_published_prod").
		WithArgs("Royal Canin").
		WillReturnResult(sqlmock.NewResult(0, 40))
	mock.ExpectCommit()

	published, errs := gate.PublishReady(context.Background(), report)
	if published != 1 {
		t.Errorf("published = %d, want 1", published)
	}
	if len(errs) != 1 {
		t.Errorf("errs = %v, want one error", errs)
	}
	if len(errs) == 1 && !strings.Contains(errs[0].Error(), "Acana") {
		t.Errorf("error should name the failed brand: %v", errs[0])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestWriteMarkdown(t *testing.T) {
	report := &GateReport{
		Thresholds:  DefaultThresholds(),
		TotalBrands: 2,
		ReadyCount:  1,
		Verdicts: []*BrandVerdict{
			{Coverage: readyCoverage("Royal Canin"), Ready: true},
			{
				Coverage: &database.BrandCoverage{Brand: "Mystery", TotalProducts: 2},
				Ready:    false,
				Failures: []string{"only 2 products, need at least 5"},
			},
		},
	}

	var buf bytes.Buffer
	if err := WriteMarkdown(&buf, report); err != nil {
		t.Fatalf("WriteMarkdown failed: %v", err)
	}

	out := buf.String()
	for _, fragment := range []string{"Royal Canin", "Mystery", "only 2 products"} {
		if !strings.Contains(out, fragment) {
			t.Errorf("markdown output missing %q", fragment)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	report := &GateReport{
		Thresholds:  DefaultThresholds(),
		TotalBrands: 1,
		ReadyCount:  1,
		Verdicts: []*BrandVerdict{
			{Coverage: readyCoverage("Acana"), Ready: true},
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, report); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], "Acana") {
		t.Errorf("data row missing brand: %s", lines[1])
	}
}

func TestWriteExcel(t *testing.T) {
	report := &GateReport{
		Thresholds:  DefaultThresholds(),
		TotalBrands: 1,
		ReadyCount:  0,
		Verdicts: []*BrandVerdict{
			{
				Coverage: &database.BrandCoverage{Brand: "Mystery", TotalProducts: 2},
				Ready:    false,
				Failures: []string{"only 2 products, need at least 5"},
			},
		},
	}

	var buf bytes.Buffer
	if err := WriteExcel(&buf, report); err != nil {
		t.Fatalf("WriteExcel failed: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("excel output is empty")
	}
}
