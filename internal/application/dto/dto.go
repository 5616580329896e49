package dto

import (
	"github.com/bibbank/riskscore/internal/domain/model"
)

// ScoreEntityRequest is the input DTO for the ScoreEntity use case.
type ScoreEntityRequest struct {
	Record  model.Record   `json:"record"`
	Related []model.Record `json:"related"`
}

// RankRequest is the input DTO for the RankEntities use case.
type RankRequest struct {
	// MinScore drops entities below it before sorting; nil keeps everything.
	MinScore *int `json:"min_score,omitempty"`
	// TotalField selects the summed field: "revenue" (the default) or any
	// numeric record field.
	TotalField string         `json:"total_field,omitempty"`
	Records    []model.Record `json:"records"`
	Related    []model.Record `json:"related"`
	TopN       int            `json:"top_n,omitempty"`
}

// ScoreResponse is the output DTO for one scored entity.
type ScoreResponse struct {
	Derived map[string]float64 `json:"derived,omitempty"`
	ID      string             `json:"id"`
	Tier    string             `json:"tier"`
	Factors []string           `json:"factors"`
	Value   int                `json:"value"`
	Rank    int                `json:"rank,omitempty"`
}

// SummaryResponse is the output DTO for an aggregate summary.
type SummaryResponse struct {
	TierCounts   map[string]int `json:"tier_counts"`
	Total        string         `json:"total"`
	AverageScore float64        `json:"average_score"`
	Count        int            `json:"count"`
}

// RankResponse is the output DTO for the RankEntities use case.
type RankResponse struct {
	RunID   string          `json:"run_id"`
	Ranked  []ScoreResponse `json:"ranked"`
	Summary SummaryResponse `json:"summary"`
}

// FromScoredEntity maps a scored entity to the response DTO.
func FromScoredEntity(e model.ScoredEntity) ScoreResponse {
	return ScoreResponse{
		ID:      e.ID(),
		Value:   e.Score.Value,
		Tier:    e.Score.Tier.String(),
		Factors: e.Score.Factors,
		Derived: e.Score.Derived,
	}
}

// FromRanking maps a ranking to the response DTO.
func FromRanking(runID string, r model.Ranking) RankResponse {
	ranked := make([]ScoreResponse, 0, len(r.Ranked))
	for _, e := range r.Ranked {
		resp := FromScoredEntity(e.ScoredEntity)
		resp.Rank = e.Rank
		ranked = append(ranked, resp)
	}

	return RankResponse{
		RunID:  runID,
		Ranked: ranked,
		Summary: SummaryResponse{
			Count:        r.Summary.Count,
			AverageScore: r.Summary.AverageScore,
			Total:        r.Summary.Total.String(),
			TierCounts:   r.Summary.TierCounts,
		},
	}
}
