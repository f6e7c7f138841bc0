package scoring

import (
	"math"
	"sort"
	"time"

	"github.com/vytor/mathadventures/internal/models"
)

const (
	pointsPerAnswer = 10
	toughestCount   = 3
)

// Apply folds one answered question into the running stats.
// A correct answer scores 10 × (streak before the answer + 1).
func Apply(stats models.GameStats, result models.QuestionResult) models.GameStats {
	out := stats
	out.Results = make([]models.QuestionResult, len(stats.Results), len(stats.Results)+1)
	copy(out.Results, stats.Results)
	out.Results = append(out.Results, result)

	out.TotalAnswered++
	if result.IsCorrect {
		out.Score += pointsPerAnswer * (stats.Streak + 1)
		out.Streak++
		out.CorrectAnswers++
	} else {
		out.Streak = 0
	}
	return out
}

// Finalize reduces the stats of a finished session into its record.
func Finalize(stats models.GameStats, level models.DifficultyLevel, mode models.GameMode, date time.Time) models.SessionRecord {
	rec := models.SessionRecord{
		Date:              date,
		Mode:              mode,
		Level:             level,
		Score:             stats.Score,
		Accuracy:          int(math.Round(float64(stats.CorrectAnswers) / float64(max(stats.TotalAnswered, 1)) * 100)),
		Mistakes:          []string{},
		ToughestQuestions: []string{},
	}

	var totalTime int64
	for _, r := range stats.Results {
		totalTime += r.TimeTaken
		if r.UsedHelp {
			rec.TotalHelpUsed++
		}
		if !r.IsCorrect {
			rec.Mistakes = append(rec.Mistakes, r.Equation())
		}
	}
	rec.AvgTime = math.Round(float64(totalTime)/float64(max(len(stats.Results), 1))/100) / 10

	sorted := make([]models.QuestionResult, len(stats.Results))
	copy(sorted, stats.Results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TimeTaken > sorted[j].TimeTaken
	})
	for i := 0; i < len(sorted) && i < toughestCount; i++ {
		rec.ToughestQuestions = append(rec.ToughestQuestions, sorted[i].Equation())
	}
	return rec
}

// Prepend puts the record at the head of the history and keeps at most
// limit entries. The input slice is not modified.
func Prepend(history []models.SessionRecord, rec models.SessionRecord, limit int) []models.SessionRecord {
	n := len(history) + 1
	if limit > 0 && n > limit {
		n = limit
	}
	out := make([]models.SessionRecord, 0, n)
	out = append(out, rec)
	for _, r := range history {
		if len(out) == n {
			break
		}
		out = append(out, r)
	}
	return out
}
