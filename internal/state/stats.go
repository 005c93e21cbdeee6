package state

import (
	"math"
	"sort"
)

// Stats aggregates the history of the active identity.
type Stats struct {
	TotalGames     int `json:"totalGames" yaml:"total_games"`
	TotalQuestions int `json:"totalQuestions" yaml:"total_questions"`
	TotalScore     int `json:"totalScore" yaml:"total_score"`
	AvgScore       int `json:"avgScore" yaml:"avg_score"`
	Accuracy       int `json:"accuracy" yaml:"accuracy"`
	BestScore      int `json:"bestScore" yaml:"best_score"`
}

// ComputeStats returns nil for an empty history.
func ComputeStats(history []RunRecord) *Stats {
	if len(history) == 0 {
		return nil
	}

	st := &Stats{TotalGames: len(history)}
	for _, r := range history {
		st.TotalQuestions += r.Total
		st.TotalScore += r.Score
		st.BestScore = max(st.BestScore, r.Score)
	}
	st.AvgScore = roundDiv(st.TotalScore, st.TotalGames)
	if st.TotalQuestions > 0 {
		st.Accuracy = roundDiv(100*st.TotalScore, st.TotalQuestions)
	}
	return st
}

// RecommendationKind classifies a profile recommendation.
type RecommendationKind string

const (
	RecommendImprove RecommendationKind = "improve"
	RecommendExpert  RecommendationKind = "expert"
)

const (
	minRunsForRecommendation = 3
	minRunsForExpert         = 6
	expertAverage            = 80.0
)

// Recommendation points the player at their weakest category, or marks
// them as an expert when every category they played is strong.
type Recommendation struct {
	Kind     RecommendationKind
	Category int
	Average  int
}

// Recommend returns nil when there is not enough history to say anything.
// Runs without a category are ignored.
func Recommend(history []RunRecord) *Recommendation {
	if len(history) < minRunsForRecommendation {
		return nil
	}

	type agg struct {
		sum   float64
		count int
	}
	byCategory := make(map[int]*agg)
	for _, r := range history {
		if r.Category == nil {
			continue
		}
		pct := 0.0
		if r.Total > 0 {
			pct = float64(r.Score) / float64(r.Total) * 100
		}
		a := byCategory[*r.Category]
		if a == nil {
			a = &agg{}
			byCategory[*r.Category] = a
		}
		a.sum += pct
		a.count++
	}
	if len(byCategory) == 0 {
		return nil
	}

	ids := make([]int, 0, len(byCategory))
	for id := range byCategory {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	worst, worstAvg := 0, math.Inf(1)
	for _, id := range ids {
		a := byCategory[id]
		if avg := a.sum / float64(a.count); avg < worstAvg {
			worst, worstAvg = id, avg
		}
	}

	if worstAvg < expertAverage {
		return &Recommendation{Kind: RecommendImprove, Category: worst, Average: int(math.Round(worstAvg))}
	}
	if len(history) >= minRunsForExpert {
		return &Recommendation{Kind: RecommendExpert, Category: worst, Average: int(math.Round(worstAvg))}
	}
	return nil
}
