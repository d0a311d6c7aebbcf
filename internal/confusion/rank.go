package confusion

import (
	"math"
	"sort"
)

// Record is one completed session as seen by the ranker. Records are
// supplied by the caller as an immutable snapshot; the ranker never
// stores them.
type Record struct {
	Identity       string
	Mode           string
	TotalPoints    int
	Correct        int
	MaxCombo       int
	AvgReactionMs  float64
	ElapsedSeconds float64
	Rating         string
}

// RankEntry is one row of a computed leaderboard
type RankEntry struct {
	Rank          int     `json:"rank"`
	Identity      string  `json:"identity"`
	TotalPoints   int     `json:"total_points"`
	AvgReactionMs float64 `json:"avg_reaction_ms"`
	Rating        string  `json:"rating"`
	Percentile    float64 `json:"percentile"`
}

// Stats summarizes a set of records
type Stats struct {
	TotalGames     int     `json:"total_games"`
	MeanPoints     float64 `json:"mean_points"`
	MedianPoints   float64 `json:"median_points"`
	MeanReactionMs float64 `json:"mean_reaction_ms"`
	StdDevPoints   float64 `json:"std_dev_points"`
}

// Rank orders records by total points descending, breaking ties with
// average reaction time ascending (faster wins). An empty modeFilter
// includes every record; otherwise only exact mode matches are ranked.
// The sort is stable so identical score pairs keep their input order.
func Rank(records []Record, modeFilter string) []RankEntry {
	filtered := filterByMode(records, modeFilter)

	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].TotalPoints != filtered[j].TotalPoints {
			return filtered[i].TotalPoints > filtered[j].TotalPoints
		}
		return filtered[i].AvgReactionMs < filtered[j].AvgReactionMs
	})

	total := len(filtered)
	entries := make([]RankEntry, 0, total)
	for i, rec := range filtered {
		percentile := 100.0
		if total > 1 {
			percentile = float64(total-i-1) / float64(total-1) * 100.0
		}
		entries = append(entries, RankEntry{
			Rank:          i + 1,
			Identity:      rec.Identity,
			TotalPoints:   rec.TotalPoints,
			AvgReactionMs: rec.AvgReactionMs,
			Rating:        rec.Rating,
			Percentile:    percentile,
		})
	}
	return entries
}

// PercentileOf returns what percentage of the records a points value
// outperforms. An empty record set counts as the 100th percentile.
func PercentileOf(records []Record, points int) float64 {
	if len(records) == 0 {
		return 100.0
	}
	below := 0
	for _, rec := range records {
		if rec.TotalPoints < points {
			below++
		}
	}
	return float64(below) / float64(len(records)) * 100.0
}

// SummaryStats computes mean, median and population standard deviation
// of points plus the mean reaction time over a set of records
func SummaryStats(records []Record) Stats {
	stats := Stats{TotalGames: len(records)}
	if len(records) == 0 {
		return stats
	}

	sumPoints := 0.0
	sumRT := 0.0
	allPoints := make([]int, 0, len(records))
	for _, rec := range records {
		sumPoints += float64(rec.TotalPoints)
		sumRT += rec.AvgReactionMs
		allPoints = append(allPoints, rec.TotalPoints)
	}
	stats.MeanPoints = sumPoints / float64(len(records))
	stats.MeanReactionMs = sumRT / float64(len(records))

	sort.Ints(allPoints)
	mid := len(allPoints) / 2
	if len(allPoints)%2 == 0 {
		stats.MedianPoints = float64(allPoints[mid-1]+allPoints[mid]) / 2.0
	} else {
		stats.MedianPoints = float64(allPoints[mid])
	}

	sumSquaredDiff := 0.0
	for _, p := range allPoints {
		diff := float64(p) - stats.MeanPoints
		sumSquaredDiff += diff * diff
	}
	stats.StdDevPoints = math.Sqrt(sumSquaredDiff / float64(len(records)))

	return stats
}

func filterByMode(records []Record, modeFilter string) []Record {
	filtered := make([]Record, 0, len(records))
	for _, rec := range records {
		if modeFilter == "" || rec.Mode == modeFilter {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}
