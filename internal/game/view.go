package game

import "github.com/vytor/mathadventures/internal/models"

// QuestionView is what a client may see of the current question. The answer
// stays on the server.
type QuestionView struct {
	Num1        models.Operand     `json:"num1"`
	Num2        models.Operand     `json:"num2"`
	Operation   models.Operation   `json:"operation"`
	Result      models.Operand     `json:"result"`
	Options     []int              `json:"options"`
	MissingPart models.MissingPart `json:"missingPart"`
}

type View struct {
	State         models.GameState       `json:"state"`
	Mode          models.GameMode        `json:"mode,omitempty"`
	Level         models.DifficultyLevel `json:"level,omitempty"`
	Score         int                    `json:"score"`
	Streak        int                    `json:"streak"`
	TotalAnswered int                    `json:"totalAnswered"`
	Correct       int                    `json:"correctAnswers"`
	TimeLeft      int                    `json:"timeLeft"`
	Paused        bool                   `json:"paused"`
	HelpOpen      bool                   `json:"helpOpen"`
	Question      *QuestionView          `json:"question,omitempty"`
	Feedback      *Feedback              `json:"feedback,omitempty"`
	LastSession   *models.SessionRecord  `json:"lastSession,omitempty"`
}

// View snapshots the game for rendering.
func (g *Game) View() View {
	v := View{
		State:         g.state,
		Mode:          g.mode,
		Level:         g.level,
		Score:         g.stats.Score,
		Streak:        g.stats.Streak,
		TotalAnswered: g.stats.TotalAnswered,
		Correct:       g.stats.CorrectAnswers,
		TimeLeft:      g.timeLeft,
		Paused:        g.paused,
		HelpOpen:      g.helpOpen,
	}
	if g.question != nil {
		q := g.question
		v.Question = &QuestionView{
			Num1:        q.Num1,
			Num2:        q.Num2,
			Operation:   q.Operation,
			Result:      q.Result,
			Options:     append([]int(nil), q.Options...),
			MissingPart: q.MissingPart,
		}
	}
	if g.feedback != nil {
		fb := *g.feedback
		v.Feedback = &fb
	}
	if g.state == models.StateSummary && g.last != nil {
		rec := *g.last
		v.LastSession = &rec
	}
	return v
}

// HelpTable is the multiplication table shown as a hint, rows 1..10.
func HelpTable() [][]int {
	table := make([][]int, 10)
	for i := range table {
		table[i] = make([]int, 10)
		for j := range table[i] {
			table[i][j] = (i + 1) * (j + 1)
		}
	}
	return table
}
