package main

import (
	"strings"
)

// Question is a single quiz entry. A question is multiple-choice iff it
// carries both an option list and a correct option index. Questions are
// immutable once accepted into a session's bank.
type Question struct {
	Text          string   `json:"question"`
	Answer        string   `json:"answer,omitempty"`
	Options       []string `json:"options,omitempty"`
	CorrectOption *int     `json:"correctOption,omitempty"`
}

func (q Question) isMultipleChoice() bool {
	return len(q.Options) > 0 && q.CorrectOption != nil
}

func (q Question) valid() bool {
	if strings.TrimSpace(q.Text) == "" {
		return false
	}

	if len(q.Options) > 0 || q.CorrectOption != nil {
		if q.CorrectOption == nil || *q.CorrectOption < 0 || *q.CorrectOption >= len(q.Options) {
			return false
		}
		return true
	}

	return strings.TrimSpace(q.Answer) != ""
}

// checkGuess applies the correctness rule: option index comparison for
// multiple choice, trimmed case-insensitive comparison for free text.
func (q Question) checkGuess(guess string, optionIndex *int) bool {
	if q.isMultipleChoice() {
		return optionIndex != nil && *optionIndex == *q.CorrectOption
	}

	return strings.EqualFold(strings.TrimSpace(guess), strings.TrimSpace(q.Answer))
}

// displayAnswer is what gets revealed to players when a round ends.
func (q Question) displayAnswer() string {
	if q.isMultipleChoice() {
		return q.Options[*q.CorrectOption]
	}
	return q.Answer
}

// filterQuestions drops malformed entries rather than rejecting the
// whole batch, so one bad record from a generator doesn't block a round.
func filterQuestions(in []Question) []Question {
	out := make([]Question, 0, len(in))
	for _, q := range in {
		if q.valid() {
			out = append(out, q)
		}
	}
	return out
}
