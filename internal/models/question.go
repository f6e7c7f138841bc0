package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Placeholder is shown in place of the hidden part of a question.
const Placeholder = "?"

type Operation string

const (
	OpMultiply Operation = "x"
	OpDivide   Operation = "÷"
)

type MissingPart string

const (
	MissingNum1   MissingPart = "num1"
	MissingNum2   MissingPart = "num2"
	MissingResult MissingPart = "result"
)

// Operand is one position of an equation. A hidden operand keeps its value
// but renders as the placeholder.
type Operand struct {
	Value  int
	Hidden bool
}

func Shown(v int) Operand  { return Operand{Value: v} }
func Hidden(v int) Operand { return Operand{Value: v, Hidden: true} }

func (o Operand) String() string {
	if o.Hidden {
		return Placeholder
	}
	return strconv.Itoa(o.Value)
}

func (o Operand) MarshalJSON() ([]byte, error) {
	if o.Hidden {
		return json.Marshal(Placeholder)
	}
	return json.Marshal(o.Value)
}

func (o *Operand) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if s != Placeholder {
			return fmt.Errorf("invalid operand %q", s)
		}
		*o = Operand{Hidden: true}
		return nil
	}
	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("invalid operand: %w", err)
	}
	*o = Operand{Value: v}
	return nil
}

// Question is one generated exercise. Exactly one of Num1, Num2 and Result
// is hidden; Answer holds its value.
type Question struct {
	Num1        Operand     `json:"num1"`
	Num2        Operand     `json:"num2"`
	Operation   Operation   `json:"operation"`
	Result      Operand     `json:"result"`
	Answer      int         `json:"answer"`
	Options     []int       `json:"options"`
	MissingPart MissingPart `json:"missingPart"`
	StartTime   time.Time   `json:"startTime"`
}

// Equation renders the question the way the learner saw it, e.g. "3 x ? = 12".
func (q Question) Equation() string {
	return fmt.Sprintf("%s %s %s = %s", q.Num1, q.Operation, q.Num2, q.Result)
}

// QuestionResult is an answered question.
type QuestionResult struct {
	Question
	SelectedAnswer int   `json:"selectedAnswer"`
	IsCorrect      bool  `json:"isCorrect"`
	TimeTaken      int64 `json:"timeTaken"` // milliseconds
	UsedHelp       bool  `json:"usedHelp"`
}

// GameStats is the running tally of a session.
type GameStats struct {
	Score          int              `json:"score"`
	Streak         int              `json:"streak"`
	TotalAnswered  int              `json:"totalAnswered"`
	CorrectAnswers int              `json:"correctAnswers"`
	Results        []QuestionResult `json:"results"`
}
