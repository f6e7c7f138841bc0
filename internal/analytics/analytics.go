package analytics

import (
	"math"
	"sort"

	"github.com/vytor/mathadventures/internal/models"
)

const (
	difficultItemLimit = 5
	trendLength        = 15
)

// Summarize derives the parent-facing analytics from a history ordered
// newest first. It returns nil for an empty history.
func Summarize(sessions []models.SessionRecord) *models.AnalyticsSummary {
	if len(sessions) == 0 {
		return nil
	}

	summary := &models.AnalyticsSummary{SessionCount: len(sessions)}

	var accuracySum int
	for _, s := range sessions {
		accuracySum += s.Accuracy
		summary.TotalHelp += s.TotalHelpUsed
		switch s.Level {
		case models.LevelBasic:
			summary.LevelSplit.Basic++
		case models.LevelAdvanced:
			summary.LevelSplit.Advanced++
		}
	}
	summary.AvgAccuracy = int(math.Round(float64(accuracySum) / float64(len(sessions))))
	summary.DifficultItems = DifficultItems(sessions, difficultItemLimit)
	summary.AccuracyTrend = AccuracyTrend(sessions, trendLength)
	return summary
}

// DifficultItems counts mistake strings across sessions and returns the most
// frequent ones, ties in the order they were first encountered.
func DifficultItems(sessions []models.SessionRecord, limit int) []models.DifficultItem {
	index := map[string]int{}
	items := []models.DifficultItem{}
	for _, s := range sessions {
		for _, m := range s.Mistakes {
			if i, ok := index[m]; ok {
				items[i].Count++
				continue
			}
			index[m] = len(items)
			items = append(items, models.DifficultItem{Equation: m, Count: 1})
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Count > items[j].Count
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

// AccuracyTrend returns the accuracy of the n most recent sessions, oldest first.
func AccuracyTrend(sessions []models.SessionRecord, n int) []models.AccuracyPoint {
	if len(sessions) < n {
		n = len(sessions)
	}
	points := make([]models.AccuracyPoint, n)
	for i := 0; i < n; i++ {
		s := sessions[n-1-i]
		points[i] = models.AccuracyPoint{Date: s.Date, Accuracy: s.Accuracy}
	}
	return points
}
