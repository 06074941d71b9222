package brands

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// GenerateRunReport строит Markdown-отчет о пакетном прогоне для
// выкладки в каталог отчетов
func GenerateRunReport(result *BatchResult, generatedAt time.Time) string {
	if result == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("# Brand Normalization Run\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", generatedAt.UTC().Format(time.RFC3339))

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Scanned: %d\n", result.TotalScanned)
	fmt.Fprintf(&b, "- Auto-applied: %d\n", result.AutoApplied)
	fmt.Fprintf(&b, "- Queued for review: %d\n", result.Queued)
	fmt.Fprintf(&b, "- Skipped: %d\n", result.Skipped)
	fmt.Fprintf(&b, "- Errors: %d\n", len(result.Errors))
	fmt.Fprintf(&b, "- Duration: %s\n\n", result.Duration.Round(time.Millisecond))

	if len(result.TierCounts) > 0 {
		b.WriteString("## Confidence tiers\n\n")
		b.WriteString("| Tier | Count |\n|------|-------|\n")

		tiers := make([]string, 0, len(result.TierCounts))
		for tier := range result.TierCounts {
			tiers = append(tiers, string(tier))
		}
		sort.Strings(tiers)
		for _, tier := range tiers {
			fmt.Fprintf(&b, "| %s | %d |\n", tier, result.TierCounts[Tier(tier)])
		}
		b.WriteString("\n")
	}

	if len(result.Errors) > 0 {
		b.WriteString("## Errors\n\n")
		limit := len(result.Errors)
		if limit > 50 {
			limit = 50
		}
		for _, e := range result.Errors[:limit] {
			fmt.Fprintf(&b, "- %s\n", e)
		}
		if len(result.Errors) > limit {
			fmt.Fprintf(&b, "- ... and %d more\n", len(result.Errors)-limit)
		}
	}

	return b.String()
}
