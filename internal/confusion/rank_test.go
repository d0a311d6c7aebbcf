package confusion

import (
	"math"
	"testing"
)

func TestRankOrderAndPercentiles(t *testing.T) {
	records := []Record{
		{Identity: "CipherMaster", Mode: "endless", TotalPoints: 1240, AvgReactionMs: 45.2},
		{Identity: "QuantumMind", Mode: "endless", TotalPoints: 1240, AvgReactionMs: 42.1},
		{Identity: "MasterPlayer", Mode: "endless", TotalPoints: 950, AvgReactionMs: 50.0},
	}

	entries := Rank(records, "")
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	// The faster reaction time wins the points tie
	wantOrder := []string{"QuantumMind", "CipherMaster", "MasterPlayer"}
	wantPercentiles := []float64{100, 50, 0}
	for i, entry := range entries {
		if entry.Identity != wantOrder[i] {
			t.Errorf("rank %d = %q, want %q", i+1, entry.Identity, wantOrder[i])
		}
		if entry.Rank != i+1 {
			t.Errorf("entry %d Rank = %d, want %d", i, entry.Rank, i+1)
		}
		if entry.Percentile != wantPercentiles[i] {
			t.Errorf("rank %d percentile = %v, want %v", i+1, entry.Percentile, wantPercentiles[i])
		}
	}
}

func TestRankModeFilter(t *testing.T) {
	records := []Record{
		{Identity: "A", Mode: "endless", TotalPoints: 100},
		{Identity: "B", Mode: "survival", TotalPoints: 200},
		{Identity: "C", Mode: "endless", TotalPoints: 300},
		{Identity: "D", Mode: "speed", TotalPoints: 400},
	}

	entries := Rank(records, "endless")
	if len(entries) != 2 {
		t.Fatalf("got %d endless entries, want 2", len(entries))
	}
	if entries[0].Identity != "C" || entries[1].Identity != "A" {
		t.Errorf("endless ranking = [%s, %s], want [C, A]", entries[0].Identity, entries[1].Identity)
	}

	if got := Rank(records, "survival"); len(got) != 1 || got[0].Percentile != 100 {
		t.Errorf("single survival entry should rank at percentile 100, got %+v", got)
	}

	if got := Rank(records, ""); len(got) != 4 {
		t.Errorf("unfiltered ranking has %d entries, want 4", len(got))
	}
}

func TestRankStableForDuplicates(t *testing.T) {
	records := []Record{
		{Identity: "First", Mode: "endless", TotalPoints: 500, AvgReactionMs: 600},
		{Identity: "Second", Mode: "endless", TotalPoints: 500, AvgReactionMs: 600},
		{Identity: "Third", Mode: "endless", TotalPoints: 500, AvgReactionMs: 600},
	}

	for run := 0; run < 5; run++ {
		entries := Rank(records, "")
		if entries[0].Identity != "First" || entries[1].Identity != "Second" || entries[2].Identity != "Third" {
			t.Fatalf("run %d: duplicate keys reordered: %v", run, entries)
		}
	}
}

func TestRankEmpty(t *testing.T) {
	if entries := Rank(nil, ""); len(entries) != 0 {
		t.Errorf("Rank(nil) = %v, want empty", entries)
	}
	if entries := Rank([]Record{}, "speed"); len(entries) != 0 {
		t.Errorf("Rank of empty set = %v, want empty", entries)
	}
}

func TestPercentileOf(t *testing.T) {
	records := []Record{
		{TotalPoints: 100},
		{TotalPoints: 200},
		{TotalPoints: 300},
		{TotalPoints: 400},
	}

	tests := []struct {
		points int
		want   float64
	}{
		{500, 100},
		{250, 50},
		{100, 0},
		{150, 25},
		{400, 75},
		{0, 0},
	}

	for _, tt := range tests {
		if got := PercentileOf(records, tt.points); got != tt.want {
			t.Errorf("PercentileOf(%d) = %v, want %v", tt.points, got, tt.want)
		}
	}

	if got := PercentileOf(nil, 100); got != 100 {
		t.Errorf("PercentileOf on empty set = %v, want 100", got)
	}
}

func TestSummaryStats(t *testing.T) {
	records := []Record{
		{TotalPoints: 2, AvgReactionMs: 500},
		{TotalPoints: 4, AvgReactionMs: 600},
		{TotalPoints: 4, AvgReactionMs: 700},
		{TotalPoints: 4, AvgReactionMs: 800},
		{TotalPoints: 5, AvgReactionMs: 900},
		{TotalPoints: 5, AvgReactionMs: 1000},
		{TotalPoints: 7, AvgReactionMs: 1100},
		{TotalPoints: 9, AvgReactionMs: 1200},
	}

	stats := SummaryStats(records)
	if stats.TotalGames != 8 {
		t.Errorf("TotalGames = %d, want 8", stats.TotalGames)
	}
	if stats.MeanPoints != 5 {
		t.Errorf("MeanPoints = %v, want 5", stats.MeanPoints)
	}
	// Population standard deviation: sqrt(32/8) = 2
	if math.Abs(stats.StdDevPoints-2) > 0.0001 {
		t.Errorf("StdDevPoints = %v, want 2", stats.StdDevPoints)
	}
	// Even count: mean of the two middle values (4+5)/2
	if stats.MedianPoints != 4.5 {
		t.Errorf("MedianPoints = %v, want 4.5", stats.MedianPoints)
	}
	if stats.MeanReactionMs != 850 {
		t.Errorf("MeanReactionMs = %v, want 850", stats.MeanReactionMs)
	}
}

func TestSummaryStatsOddCount(t *testing.T) {
	records := []Record{
		{TotalPoints: 10},
		{TotalPoints: 30},
		{TotalPoints: 20},
	}

	stats := SummaryStats(records)
	if stats.MedianPoints != 20 {
		t.Errorf("MedianPoints = %v, want 20", stats.MedianPoints)
	}
	if stats.MeanPoints != 20 {
		t.Errorf("MeanPoints = %v, want 20", stats.MeanPoints)
	}
}

func TestSummaryStatsEmpty(t *testing.T) {
	stats := SummaryStats(nil)
	if stats.TotalGames != 0 || stats.MeanPoints != 0 || stats.MedianPoints != 0 || stats.StdDevPoints != 0 {
		t.Errorf("empty stats = %+v, want zero values", stats)
	}
}
