package quality

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// WriteMarkdown пишет отчет гейта в формате Markdown
func WriteMarkdown(w io.Writer, report *GateReport) error {
	var b strings.Builder

	b.WriteString("# Catalog Quality Report\n\n")
	b.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("Brands: %d, ready for publish: %d\n\n", report.TotalBrands, report.ReadyCount))

	t := report.Thresholds
	b.WriteString(fmt.Sprintf("Thresholds: ingredients %.0f%%, form %.0f%%, life stage %.0f%%, kcal %.0f%%, min products %d\n\n",
		t.Ingredients, t.Form, t.LifeStage, t.Kcal, t.MinProducts))

	b.WriteString("| Brand | Products | Ingredients | Form | Life stage | Kcal | Ready | Failures |\n")
	b.WriteString("|-------|----------|-------------|------|------------|------|-------|----------|\n")
	for _, v := range report.Verdicts {
		c := v.Coverage
		ready := "no"
		if v.Ready {
			ready = "yes"
		}
		b.WriteString(fmt.Sprintf("| %s | %d | %.1f%% | %.1f%% | %.1f%% | %.1f%% | %s | %s |\n",
			c.Brand, c.TotalProducts,
			c.IngredientsCoverage, c.FormCoverage, c.LifeStageCoverage, c.KcalCoverage,
			ready, strings.Join(v.Failures, "; ")))
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write markdown report: %w", err)
	}
	return nil
}

// WriteCSV пишет отчет гейта в формате CSV
func WriteCSV(w io.Writer, report *GateReport) error {
	cw := csv.NewWriter(w)

	header := []string{"brand", "products", "ingredients_pct", "form_pct", "life_stage_pct", "kcal_pct", "ready", "failures"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, v := range report.Verdicts {
		c := v.Coverage
		row := []string{
			c.Brand,
			strconv.Itoa(c.TotalProducts),
			fmt.Sprintf("%.1f", c.IngredientsCoverage),
			fmt.Sprintf("%.1f", c.FormCoverage),
			fmt.Sprintf("%.1f", c.LifeStageCoverage),
			fmt.Sprintf("%.1f", c.KcalCoverage),
			strconv.FormatBool(v.Ready),
			strings.Join(v.Failures, "; "),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv report: %w", err)
	}
	return nil
}

// WriteExcel пишет отчет гейта в книгу Excel
func WriteExcel(w io.Writer, report *GateReport) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Quality"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"Brand", "Products", "Ingredients %", "Form %", "Life stage %", "Kcal %", "Ready", "Failures"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header cell: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDDDDD"}, Pattern: 1},
	})
	if err == nil {
		_ = f.SetCellStyle(sheet, "A1", "H1", headerStyle)
	}

	for i, v := range report.Verdicts {
		c := v.Coverage
		rowNum := i + 2
		values := []interface{}{
			c.Brand,
			c.TotalProducts,
			c.IngredientsCoverage,
			c.FormCoverage,
			c.LifeStageCoverage,
			c.KcalCoverage,
			v.Ready,
			strings.Join(v.Failures, "; "),
		}
		for col, val := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowNum)
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 28)
	_ = f.SetColWidth(sheet, "H", "H", 60)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write excel report: %w", err)
	}
	return nil
}
