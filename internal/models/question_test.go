package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionEquation(t *testing.T) {
	q := Question{
		Num1:      Shown(3),
		Num2:      Hidden(4),
		Operation: OpMultiply,
		Result:    Shown(12),
	}
	assert.Equal(t, "3 x ? = 12", q.Equation())

	q = Question{
		Num1:      Shown(20),
		Num2:      Shown(4),
		Operation: OpDivide,
		Result:    Hidden(5),
	}
	assert.Equal(t, "20 ÷ 4 = ?", q.Equation())
}

func TestOperandJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		A Operand `json:"a"`
		B Operand `json:"b"`
	}{A: Shown(7), B: Hidden(9)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":7,"b":"?"}`, string(b))

	var o Operand
	require.NoError(t, json.Unmarshal([]byte(`"?"`), &o))
	assert.True(t, o.Hidden)

	require.NoError(t, json.Unmarshal([]byte(`12`), &o))
	assert.Equal(t, Operand{Value: 12}, o)

	assert.Error(t, json.Unmarshal([]byte(`"x"`), &o))
}

func TestParseEnums(t *testing.T) {
	m, err := ParseGameMode("timed")
	require.NoError(t, err)
	assert.Equal(t, ModeTimed, m)

	_, err = ParseGameMode("sprint")
	assert.Error(t, err)

	l, err := ParseDifficultyLevel(" Advanced ")
	require.NoError(t, err)
	assert.Equal(t, LevelAdvanced, l)

	_, err = ParseDifficultyLevel("")
	assert.Error(t, err)
}

func TestSessionRecordDecodesBrowserHistory(t *testing.T) {
	raw := `[{"date":"2024-03-01T10:15:00.000Z","mode":"TIMED","level":"BASIC","score":120,
		"accuracy":80,"avgTime":2.4,"totalHelpUsed":1,"mistakes":["3 x 4 = ?"],"toughestQuestions":["6 x 7 = ?"]}]`

	var sessions []SessionRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &sessions))
	require.Len(t, sessions, 1)
	assert.Equal(t, ModeTimed, sessions[0].Mode)
	assert.Equal(t, 2024, sessions[0].Date.Year())
	assert.Equal(t, []string{"3 x 4 = ?"}, sessions[0].Mistakes)
}
