package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/vytor/mathadventures/internal/models"
	"github.com/vytor/mathadventures/internal/scoring"
)

// DefaultSessionSeconds is the length of a timed session.
const DefaultSessionSeconds = 60

// ErrInvalidTransition is returned when an event is not allowed in the
// current state.
var ErrInvalidTransition = errors.New("invalid transition")

// QuestionSource produces questions for a level.
type QuestionSource interface {
	Generate(level models.DifficultyLevel) models.Question
}

type FeedbackKind string

const (
	FeedbackSuccess FeedbackKind = "success"
	FeedbackError   FeedbackKind = "error"
)

// Feedback describes the outcome of the last answer. Error feedback blocks
// further answers until it is acknowledged.
type Feedback struct {
	Kind          FeedbackKind `json:"kind"`
	Selected      int          `json:"selected"`
	CorrectAnswer int          `json:"correctAnswer"`
}

// Outcome is returned by Answer.
type Outcome struct {
	Result   models.QuestionResult `json:"result"`
	Feedback Feedback              `json:"feedback"`
}

// Game is the state machine for one player. It is not safe for concurrent
// use; callers serialize events.
type Game struct {
	questions      QuestionSource
	now            func() time.Time
	sessionSeconds int

	state    models.GameState
	mode     models.GameMode
	level    models.DifficultyLevel
	stats    models.GameStats
	question *models.Question
	timeLeft int
	paused   bool
	feedback *Feedback
	helpOpen bool
	helpUsed bool
	last     *models.SessionRecord
}

type Option func(*Game)

func WithClock(now func() time.Time) Option {
	return func(g *Game) { g.now = now }
}

func WithSessionSeconds(seconds int) Option {
	return func(g *Game) {
		if seconds > 0 {
			g.sessionSeconds = seconds
		}
	}
}

// New returns a game in the START state.
func New(questions QuestionSource, opts ...Option) *Game {
	g := &Game{
		questions:      questions,
		now:            time.Now,
		sessionSeconds: DefaultSessionSeconds,
		state:          models.StateStart,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Game) State() models.GameState { return g.state }

func (g *Game) Stats() models.GameStats { return g.stats }

func (g *Game) TimeLeft() int { return g.timeLeft }

func (g *Game) Paused() bool { return g.paused }

// LastRecord is the record of the most recently finished session.
func (g *Game) LastRecord() *models.SessionRecord { return g.last }

func (g *Game) invalid(event string) error {
	return fmt.Errorf("%w: %s in state %s", ErrInvalidTransition, event, g.state)
}

func (g *Game) errorPending() bool {
	return g.feedback != nil && g.feedback.Kind == FeedbackError
}

// Start begins a new session.
func (g *Game) Start(mode models.GameMode, level models.DifficultyLevel) error {
	if g.state != models.StateStart {
		return g.invalid("start")
	}
	g.mode = mode
	g.level = level
	g.stats = models.GameStats{Results: []models.QuestionResult{}}
	g.timeLeft = g.sessionSeconds
	g.paused = false
	g.feedback = nil
	g.helpOpen = false
	g.last = nil
	g.state = models.StatePlaying
	g.nextQuestion()
	return nil
}

func (g *Game) nextQuestion() {
	q := g.questions.Generate(g.level)
	q.StartTime = g.now()
	g.question = &q
	g.helpUsed = false
}

// Answer records the learner's choice for the current question. A correct
// answer moves straight to a new question; a wrong one pauses the session
// until Acknowledge.
func (g *Game) Answer(choice int) (Outcome, error) {
	if g.state != models.StatePlaying || g.question == nil || g.errorPending() {
		return Outcome{}, g.invalid("answer")
	}

	q := *g.question
	taken := g.now().Sub(q.StartTime).Milliseconds()
	if taken < 0 {
		taken = 0
	}
	result := models.QuestionResult{
		Question:       q,
		SelectedAnswer: choice,
		IsCorrect:      choice == q.Answer,
		TimeTaken:      taken,
		UsedHelp:       g.helpUsed,
	}
	g.stats = scoring.Apply(g.stats, result)

	fb := Feedback{Kind: FeedbackSuccess, Selected: choice, CorrectAnswer: q.Answer}
	if result.IsCorrect {
		g.nextQuestion()
	} else {
		fb.Kind = FeedbackError
		g.paused = true
	}
	g.feedback = &fb
	return Outcome{Result: result, Feedback: fb}, nil
}

// Acknowledge dismisses error feedback and continues with a new question.
func (g *Game) Acknowledge() error {
	if g.state != models.StatePlaying || !g.errorPending() {
		return g.invalid("acknowledge")
	}
	g.feedback = nil
	g.paused = false
	g.nextQuestion()
	return nil
}

// OpenHelp shows the multiplication table and marks help as used for the
// current question.
func (g *Game) OpenHelp() error {
	if g.state != models.StatePlaying {
		return g.invalid("open help")
	}
	g.helpOpen = true
	g.helpUsed = true
	return nil
}

func (g *Game) CloseHelp() error {
	if g.state != models.StatePlaying {
		return g.invalid("close help")
	}
	g.helpOpen = false
	return nil
}

// Tick advances the countdown by one second. It only counts down during an
// unpaused timed session and finishes the session when time runs out. The
// returned record is non-nil when this tick finished the session.
func (g *Game) Tick() *models.SessionRecord {
	if g.state != models.StatePlaying || g.mode != models.ModeTimed || g.paused || g.timeLeft <= 0 {
		return nil
	}
	g.timeLeft--
	if g.timeLeft > 0 {
		return nil
	}
	return g.finish()
}

// Finish ends the session early and returns its record.
func (g *Game) Finish() (models.SessionRecord, error) {
	if g.state != models.StatePlaying || g.errorPending() {
		return models.SessionRecord{}, g.invalid("finish")
	}
	return *g.finish(), nil
}

func (g *Game) finish() *models.SessionRecord {
	rec := scoring.Finalize(g.stats, g.level, g.mode, g.now())
	g.last = &rec
	g.state = models.StateSummary
	g.question = nil
	g.feedback = nil
	g.helpOpen = false
	g.paused = false
	return &rec
}

// ReturnToMenu leaves the summary screen.
func (g *Game) ReturnToMenu() error {
	if g.state != models.StateSummary {
		return g.invalid("return to menu")
	}
	g.state = models.StateStart
	return nil
}

func (g *Game) OpenAnalytics() error {
	if g.state != models.StateStart {
		return g.invalid("open analytics")
	}
	g.state = models.StateAnalytics
	return nil
}

func (g *Game) CloseAnalytics() error {
	if g.state != models.StateAnalytics {
		return g.invalid("close analytics")
	}
	g.state = models.StateStart
	return nil
}
