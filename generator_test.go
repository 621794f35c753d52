package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGenerator(url string) *httpGenerator {
	return &httpGenerator{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestGeneratorDisabledWithoutURL(t *testing.T) {
	gen := testGenerator("")

	_, err := gen.Generate(context.Background(), "Frontend", "CSS layout", false, 5)
	assert.ErrorIs(t, err, errGeneratorDisabled)
}

func TestGeneratorParsesWrappedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Frontend", req.Course)
		assert.Equal(t, "CSS layout", req.Topic)
		assert.Equal(t, 5, req.Count)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"questions":[{"question":"What does CSS stand for?","answer":"Cascading Style Sheets"}]}`))
	}))
	defer srv.Close()

	gen := testGenerator(srv.URL)

	questions, err := gen.Generate(context.Background(), "Frontend", "CSS layout", false, 5)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "What does CSS stand for?", questions[0].Text)
	assert.Equal(t, "Cascading Style Sheets", questions[0].Answer)
}

func TestGeneratorParsesBareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"question":"Pick","options":["a","b"],"correctOption":1}]`))
	}))
	defer srv.Close()

	gen := testGenerator(srv.URL)

	questions, err := gen.Generate(context.Background(), "Frontend", "CSS layout", true, 5)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.True(t, questions[0].isMultipleChoice())
}

func TestGeneratorRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	gen := testGenerator(srv.URL)

	_, err := gen.Generate(context.Background(), "Backend", "REST APIs", false, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "returned")
}

func TestGeneratorRejectsGarbage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	gen := testGenerator(srv.URL)

	_, err := gen.Generate(context.Background(), "Backend", "REST APIs", false, 5)
	assert.Error(t, err)
}

func TestGeneratorRejectsAllMalformedQuestions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"questions":[{"question":""},{"question":"Pick","options":["a"],"correctOption":3}]}`))
	}))
	defer srv.Close()

	gen := testGenerator(srv.URL)

	_, err := gen.Generate(context.Background(), "Backend", "REST APIs", false, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no usable questions")
}

func TestGeneratorFiltersPartiallyMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"questions":[{"question":"good","answer":"yes"},{"question":""}]}`))
	}))
	defer srv.Close()

	gen := testGenerator(srv.URL)

	questions, err := gen.Generate(context.Background(), "Backend", "REST APIs", false, 5)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "good", questions[0].Text)
}

func TestParseGeneratedQuestions(t *testing.T) {
	wrapped, err := parseGeneratedQuestions([]byte(`{"questions":[{"question":"q","answer":"a"}]}`))
	require.NoError(t, err)
	assert.Len(t, wrapped, 1)

	bare, err := parseGeneratedQuestions([]byte(`[{"question":"q","answer":"a"}]`))
	require.NoError(t, err)
	assert.Len(t, bare, 1)

	_, err = parseGeneratedQuestions([]byte(`"nope"`))
	assert.Error(t, err)
}

func TestGeneratorContextDefaultsTimeout(t *testing.T) {
	cfg := &Config{}

	ctx, cancel := generatorContext(cfg)
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(30*time.Second), deadline, time.Second)
}
