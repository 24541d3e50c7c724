// Package config provides configuration loading utilities for the fallback
// question bank.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// QuestionBank holds curated fallback questions keyed by interview type.
// It is served when the model cannot return a usable question set.
type QuestionBank struct {
	Sets []QuestionSet `yaml:"sets"`
}

// QuestionSet is one curated set of five questions for an interview type.
type QuestionSet struct {
	InterviewType string         `yaml:"interview_type"`
	Questions     []BankQuestion `yaml:"questions"`
}

// BankQuestion is a single curated question with its answer time limit.
type BankQuestion struct {
	ID        int    `yaml:"id"`
	Question  string `yaml:"question"`
	TimeLimit int    `yaml:"time_limit"`
}

// LoadQuestionBank loads the fallback question bank from a YAML file.
func LoadQuestionBank(filePath string) (*QuestionBank, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("question bank file not found: %s", absPath)
	}

	// #nosec G304 -- Configuration files are expected to be safe
	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read question bank file: %w", err)
	}

	var bank QuestionBank
	if err := yaml.Unmarshal(content, &bank); err != nil {
		return nil, fmt.Errorf("failed to parse question bank YAML: %w", err)
	}

	if len(bank.Sets) == 0 {
		return nil, fmt.Errorf("no question sets found in question bank: %s", filePath)
	}
	return &bank, nil
}

// SetFor returns the question set for an interview type. Matching is
// case-insensitive; when no set matches, the first set in the file is the
// catch-all.
func (b *QuestionBank) SetFor(interviewType string) QuestionSet {
	want := strings.ToLower(strings.TrimSpace(interviewType))
	for _, s := range b.Sets {
		if strings.ToLower(s.InterviewType) == want {
			return s
		}
	}
	if len(b.Sets) == 0 {
		return QuestionSet{}
	}
	return b.Sets[0]
}
