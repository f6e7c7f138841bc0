package models

import (
	"fmt"
	"strings"
	"time"
)

type GameMode string

const (
	ModeTimed   GameMode = "TIMED"
	ModeRelaxed GameMode = "RELAXED"
)

// ParseGameMode accepts the mode name in any case.
func ParseGameMode(s string) (GameMode, error) {
	switch m := GameMode(strings.ToUpper(strings.TrimSpace(s))); m {
	case ModeTimed, ModeRelaxed:
		return m, nil
	}
	return "", fmt.Errorf("unknown game mode %q", s)
}

type DifficultyLevel string

const (
	LevelBasic    DifficultyLevel = "BASIC"
	LevelAdvanced DifficultyLevel = "ADVANCED"
)

// ParseDifficultyLevel accepts the level name in any case.
func ParseDifficultyLevel(s string) (DifficultyLevel, error) {
	switch l := DifficultyLevel(strings.ToUpper(strings.TrimSpace(s))); l {
	case LevelBasic, LevelAdvanced:
		return l, nil
	}
	return "", fmt.Errorf("unknown difficulty level %q", s)
}

type GameState string

const (
	StateStart     GameState = "START"
	StatePlaying   GameState = "PLAYING"
	StateSummary   GameState = "SUMMARY"
	StateAnalytics GameState = "ANALYTICS"
)

// SessionRecord summarizes one finished session. Field names follow the
// history format of the browser client; dates are RFC 3339.
type SessionRecord struct {
	Date              time.Time       `json:"date"`
	Mode              GameMode        `json:"mode"`
	Level             DifficultyLevel `json:"level"`
	Score             int             `json:"score"`
	Accuracy          int             `json:"accuracy"`
	AvgTime           float64         `json:"avgTime"`
	TotalHelpUsed     int             `json:"totalHelpUsed"`
	Mistakes          []string        `json:"mistakes"`
	ToughestQuestions []string        `json:"toughestQuestions"`
}

type DifficultItem struct {
	Equation string `json:"equation"`
	Count    int    `json:"count"`
}

type LevelSplit struct {
	Basic    int `json:"basic"`
	Advanced int `json:"advanced"`
}

type AccuracyPoint struct {
	Date     time.Time `json:"date"`
	Accuracy int       `json:"accuracy"`
}

type AnalyticsSummary struct {
	SessionCount   int             `json:"sessionCount"`
	AvgAccuracy    int             `json:"avgAccuracy"`
	TotalHelp      int             `json:"totalHelp"`
	DifficultItems []DifficultItem `json:"difficultItems"`
	LevelSplit     LevelSplit      `json:"levelSplit"`
	AccuracyTrend  []AccuracyPoint `json:"accuracyTrend"`
}
