package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rules are the tunable game parameters.
type Rules struct {
	SessionSeconds int `yaml:"session_seconds"`
	HistoryLimit   int `yaml:"history_limit"`
	MaxOperand     int `yaml:"max_operand"`
}

func DefaultRules() Rules {
	return Rules{
		SessionSeconds: 60,
		HistoryLimit:   50,
		MaxOperand:     10,
	}
}

// LoadRules reads rules from a YAML file over the defaults. An empty path
// yields the defaults.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("read rules file: %w", err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return rules, fmt.Errorf("parse rules file: %w", err)
	}
	return rules, rules.Validate()
}

func (r Rules) Validate() error {
	var problems []string
	if r.SessionSeconds < 1 {
		problems = append(problems, "session_seconds must be at least 1")
	}
	if r.HistoryLimit < 1 {
		problems = append(problems, "history_limit must be at least 1")
	}
	if r.MaxOperand < 2 {
		problems = append(problems, "max_operand must be at least 2")
	}
	if len(problems) == 0 {
		return nil
	}
	return errors.New("invalid rules: " + strings.Join(problems, "; "))
}
