package mathgen

import (
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/vytor/mathadventures/internal/models"
)

const (
	DefaultMaxOperand = 10
	optionCount       = 4
	maxOffset         = 5
)

// Generator produces multiplication and division questions. It is safe for
// concurrent use.
type Generator struct {
	mu         sync.Mutex
	rng        *rand.Rand
	maxOperand int
	now        func() time.Time
}

type Option func(*Generator)

// WithSource makes generation deterministic.
func WithSource(src rand.Source) Option {
	return func(g *Generator) {
		g.rng = rand.New(src)
	}
}

func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// New creates a Generator drawing operands from [2, maxOperand].
func New(maxOperand int, opts ...Option) *Generator {
	if maxOperand < 2 {
		maxOperand = DefaultMaxOperand
	}
	g := &Generator{
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		maxOperand: maxOperand,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) MaxOperand() int { return g.maxOperand }

// Generate returns a new question for the level. Basic questions always hide
// the result; advanced questions hide any of the three positions.
func (g *Generator) Generate(level models.DifficultyLevel) models.Question {
	g.mu.Lock()
	defer g.mu.Unlock()

	var num1, num2, result int
	op := models.OpMultiply
	if g.rng.IntN(2) == 1 {
		op = models.OpDivide
	}

	f1, f2 := g.operand(), g.operand()
	switch op {
	case models.OpMultiply:
		num1, num2, result = f1, f2, f1*f2
	case models.OpDivide:
		num1, num2, result = f1*f2, f1, f2
	}

	missing := models.MissingResult
	if level == models.LevelAdvanced {
		switch g.rng.IntN(3) {
		case 0:
			missing = models.MissingNum1
		case 1:
			missing = models.MissingNum2
		}
	}

	q := models.Question{
		Num1:        models.Shown(num1),
		Num2:        models.Shown(num2),
		Operation:   op,
		Result:      models.Shown(result),
		MissingPart: missing,
		StartTime:   g.now(),
	}
	switch missing {
	case models.MissingNum1:
		q.Num1.Hidden, q.Answer = true, num1
	case models.MissingNum2:
		q.Num2.Hidden, q.Answer = true, num2
	default:
		q.Result.Hidden, q.Answer = true, result
	}
	q.Options = g.options(q.Answer)
	return q
}

func (g *Generator) operand() int {
	return g.rng.IntN(g.maxOperand-1) + 2
}

// options returns the answer plus three distractors within maxOffset of it,
// sorted ascending. Answers are at least 2, so answer+1..answer+maxOffset
// always supplies enough distinct positive candidates.
func (g *Generator) options(answer int) []int {
	seen := map[int]bool{answer: true}
	out := []int{answer}
	for len(out) < optionCount {
		offset := g.rng.IntN(maxOffset) + 1
		fake := answer + offset
		if g.rng.IntN(2) == 0 {
			fake = answer - offset
		}
		if fake < 0 {
			fake = -fake
		}
		if fake <= 0 || seen[fake] {
			continue
		}
		seen[fake] = true
		out = append(out, fake)
	}
	sort.Ints(out)
	return out
}
