package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// QuestionGenerator is the boundary to the external question-generation
// collaborator. Failures are recoverable by design: callers revert to a
// safe prior state and report, never crash.
type QuestionGenerator interface {
	Generate(ctx context.Context, course, topic string, multipleChoice bool, count int) ([]Question, error)
}

var errGeneratorDisabled = errors.New("question generation is not configured")

type generateRequest struct {
	Course         string `json:"course"`
	Topic          string `json:"topic"`
	MultipleChoice bool   `json:"multipleChoice"`
	Count          int    `json:"questionCount"`
}

type httpGenerator struct {
	url    string
	client *http.Client
}

func newHTTPGenerator(cfg *Config) QuestionGenerator {
	return &httpGenerator{
		url: cfg.generatorURL,
		client: &http.Client{
			Timeout: cfg.generatorTimeout,
		},
	}
}

func (g *httpGenerator) Generate(ctx context.Context, course, topic string, multipleChoice bool, count int) ([]Question, error) {
	if g.url == "" {
		return nil, errGeneratorDisabled
	}

	body, err := json.Marshal(generateRequest{
		Course:         course,
		Topic:          topic,
		MultipleChoice: multipleChoice,
		Count:          count,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("question generator returned %s", resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	questions, err := parseGeneratedQuestions(raw)
	if err != nil {
		return nil, err
	}

	questions = filterQuestions(questions)
	if len(questions) == 0 {
		return nil, errors.New("question generator returned no usable questions")
	}

	return questions, nil
}

// parseGeneratedQuestions accepts either {"questions": [...]} or a bare
// array, since the generation service has produced both shapes.
func parseGeneratedQuestions(raw []byte) ([]Question, error) {
	var wrapped struct {
		Questions []Question `json:"questions"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Questions) > 0 {
		return wrapped.Questions, nil
	}

	var bare []Question
	if err := json.Unmarshal(raw, &bare); err == nil {
		return bare, nil
	}

	return nil, errors.New("unrecognized question generator response")
}

// generatorContext builds the timeout context used for out-of-loop
// generation calls.
func generatorContext(cfg *Config) (context.Context, context.CancelFunc) {
	timeout := cfg.generatorTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}
