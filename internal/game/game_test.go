package game_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/mathadventures/internal/game"
	"github.com/vytor/mathadventures/internal/models"
)

// fixedQuestions always asks 3 x 4 = ?.
type fixedQuestions struct{ calls int }

func (f *fixedQuestions) Generate(level models.DifficultyLevel) models.Question {
	f.calls++
	return models.Question{
		Num1:        models.Shown(3),
		Num2:        models.Shown(4),
		Operation:   models.OpMultiply,
		Result:      models.Hidden(12),
		Answer:      12,
		Options:     []int{10, 11, 12, 14},
		MissingPart: models.MissingResult,
	}
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time            { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newGame(t *testing.T, opts ...game.Option) (*game.Game, *fixedQuestions, *clock) {
	t.Helper()
	q := &fixedQuestions{}
	c := &clock{t: time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)}
	opts = append([]game.Option{game.WithClock(c.now)}, opts...)
	return game.New(q, opts...), q, c
}

func TestStart_ResetsSession(t *testing.T) {
	g, q, _ := newGame(t)

	require.NoError(t, g.Start(models.ModeTimed, models.LevelBasic))
	assert.Equal(t, models.StatePlaying, g.State())
	assert.Equal(t, 60, g.TimeLeft())
	assert.Equal(t, 1, q.calls)
	assert.Zero(t, g.Stats().Score)

	assert.ErrorIs(t, g.Start(models.ModeTimed, models.LevelBasic), game.ErrInvalidTransition)
}

func TestAnswer_CorrectAdvances(t *testing.T) {
	g, q, c := newGame(t)
	require.NoError(t, g.Start(models.ModeRelaxed, models.LevelBasic))

	c.advance(1500 * time.Millisecond)
	out, err := g.Answer(12)
	require.NoError(t, err)

	assert.True(t, out.Result.IsCorrect)
	assert.Equal(t, int64(1500), out.Result.TimeTaken)
	assert.Equal(t, game.FeedbackSuccess, out.Feedback.Kind)
	assert.Equal(t, 10, g.Stats().Score)
	assert.Equal(t, 2, q.calls, "next question generated")
	assert.False(t, g.Paused())

	_, err = g.Answer(12)
	require.NoError(t, err)
	assert.Equal(t, 30, g.Stats().Score)
}

func TestAnswer_IncorrectPausesUntilAcknowledged(t *testing.T) {
	g, q, _ := newGame(t)
	require.NoError(t, g.Start(models.ModeTimed, models.LevelBasic))

	out, err := g.Answer(11)
	require.NoError(t, err)
	assert.False(t, out.Result.IsCorrect)
	assert.Equal(t, game.FeedbackError, out.Feedback.Kind)
	assert.Equal(t, 12, out.Feedback.CorrectAnswer)
	assert.True(t, g.Paused())
	assert.Equal(t, 1, q.calls)

	_, err = g.Answer(12)
	assert.ErrorIs(t, err, game.ErrInvalidTransition, "answers are blocked while error feedback shows")
	_, err = g.Finish()
	assert.ErrorIs(t, err, game.ErrInvalidTransition)

	assert.Nil(t, g.Tick(), "paused timer does not move")
	assert.Equal(t, 60, g.TimeLeft())

	require.NoError(t, g.Acknowledge())
	assert.False(t, g.Paused())
	assert.Equal(t, 2, q.calls)
	assert.ErrorIs(t, g.Acknowledge(), game.ErrInvalidTransition)
}

func TestHelp_MarksCurrentQuestionOnly(t *testing.T) {
	g, _, _ := newGame(t)
	require.NoError(t, g.Start(models.ModeRelaxed, models.LevelBasic))

	require.NoError(t, g.OpenHelp())
	assert.True(t, g.View().HelpOpen)
	require.NoError(t, g.CloseHelp())

	out, err := g.Answer(12)
	require.NoError(t, err)
	assert.True(t, out.Result.UsedHelp)

	out, err = g.Answer(12)
	require.NoError(t, err)
	assert.False(t, out.Result.UsedHelp)
}

func TestTick_TimedSessionFinishesAtZero(t *testing.T) {
	g, _, _ := newGame(t, game.WithSessionSeconds(3))
	require.NoError(t, g.Start(models.ModeTimed, models.LevelAdvanced))
	_, err := g.Answer(12)
	require.NoError(t, err)

	assert.Nil(t, g.Tick())
	assert.Nil(t, g.Tick())
	rec := g.Tick()
	require.NotNil(t, rec)

	assert.Equal(t, models.StateSummary, g.State())
	assert.Equal(t, 0, g.TimeLeft())
	assert.Equal(t, 10, rec.Score)
	assert.Equal(t, 100, rec.Accuracy)
	assert.Equal(t, models.LevelAdvanced, rec.Level)
	assert.Equal(t, models.ModeTimed, rec.Mode)

	assert.Nil(t, g.Tick(), "no ticks after the session ended")
}

func TestTick_RelaxedNeverCountsDown(t *testing.T) {
	g, _, _ := newGame(t)
	require.NoError(t, g.Start(models.ModeRelaxed, models.LevelBasic))

	for i := 0; i < 100; i++ {
		assert.Nil(t, g.Tick())
	}
	assert.Equal(t, 60, g.TimeLeft())
	assert.Equal(t, models.StatePlaying, g.State())
}

func TestFinish_AndNavigation(t *testing.T) {
	g, _, _ := newGame(t)

	require.NoError(t, g.OpenAnalytics())
	assert.Equal(t, models.StateAnalytics, g.State())
	require.NoError(t, g.CloseAnalytics())

	require.NoError(t, g.Start(models.ModeRelaxed, models.LevelBasic))
	_, err := g.Answer(11)
	require.NoError(t, err)
	require.NoError(t, g.Acknowledge())

	rec, err := g.Finish()
	require.NoError(t, err)
	assert.Equal(t, []string{"3 x 4 = ?"}, rec.Mistakes)
	assert.Equal(t, models.StateSummary, g.State())
	require.NotNil(t, g.LastRecord())

	assert.ErrorIs(t, g.OpenAnalytics(), game.ErrInvalidTransition)
	require.NoError(t, g.ReturnToMenu())
	assert.Equal(t, models.StateStart, g.State())
	assert.ErrorIs(t, g.ReturnToMenu(), game.ErrInvalidTransition)
}

func TestView_HidesAnswer(t *testing.T) {
	g, _, _ := newGame(t)
	require.NoError(t, g.Start(models.ModeTimed, models.LevelBasic))

	b, err := json.Marshal(g.View())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	q := decoded["question"].(map[string]any)
	assert.Equal(t, "?", q["result"])
	assert.NotContains(t, q, "answer")
	assert.NotContains(t, decoded, "feedback")
}

func TestHelpTable(t *testing.T) {
	table := game.HelpTable()
	require.Len(t, table, 10)
	assert.Equal(t, 1, table[0][0])
	assert.Equal(t, 42, table[5][6])
	assert.Equal(t, 100, table[9][9])
}
