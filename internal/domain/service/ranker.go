package service

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/bibbank/riskscore/internal/domain/model"
)

// TotalFunc selects the numeric value summed into Summary.Total.
type TotalFunc func(e model.ScoredEntity) decimal.Decimal

// TotalRevenue sums the revenue extracted from related records.
func TotalRevenue(e model.ScoredEntity) decimal.Decimal {
	return e.Input.Revenue
}

// TotalField sums a numeric field read straight off each record.
// Missing or non-numeric values contribute zero.
func TotalField(field string) TotalFunc {
	return func(e model.ScoredEntity) decimal.Decimal {
		d, _ := e.Record.Decimal(field)
		return d
	}
}

// RankOptions controls filtering, truncation and the summed field.
type RankOptions struct {
	// MinScore drops entities scoring below it before sorting. Nil disables the filter.
	MinScore *int
	// Total selects the summed field. Nil yields a zero total.
	Total TotalFunc
	// TopN truncates the ranked list after sorting. Zero or negative keeps everything.
	TopN int
}

// MinScore is a convenience for building RankOptions.MinScore.
func MinScore(v int) *int {
	return &v
}

// RankAndSummarize filters, stably sorts by score descending and truncates the
// entities, and summarises the filtered (untruncated) set. The input slice is
// not modified.
func RankAndSummarize(entities []model.ScoredEntity, opts RankOptions) model.Ranking {
	filtered := make([]model.ScoredEntity, 0, len(entities))
	for _, e := range entities {
		if opts.MinScore != nil && e.Score.Value < *opts.MinScore {
			continue
		}
		filtered = append(filtered, e)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Score.Value > filtered[j].Score.Value
	})

	summary := Summarize(filtered, opts.Total)

	n := len(filtered)
	if opts.TopN > 0 && opts.TopN < n {
		n = opts.TopN
	}

	ranked := make([]model.RankedEntity, 0, n)
	for i, e := range filtered[:n] {
		ranked = append(ranked, model.RankedEntity{ScoredEntity: e, Rank: i + 1})
	}

	return model.Ranking{Ranked: ranked, Summary: summary}
}

// Summarize computes count, average score, total and per-tier counts. Only
// tiers present in entities appear in TierCounts.
func Summarize(entities []model.ScoredEntity, total TotalFunc) model.Summary {
	summary := model.Summary{
		Total:      decimal.Zero,
		TierCounts: make(map[string]int),
	}

	sum := 0
	for _, e := range entities {
		sum += e.Score.Value
		if !e.Score.Tier.IsZero() {
			summary.TierCounts[e.Score.Tier.String()]++
		}
		if total != nil {
			summary.Total = summary.Total.Add(total(e))
		}
	}

	summary.Count = len(entities)
	if summary.Count > 0 {
		summary.AverageScore = float64(sum) / float64(summary.Count)
	}

	return summary
}
