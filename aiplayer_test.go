package main

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAIBrainIsDeterministicUnderSeed(t *testing.T) {
	a := newAIBrain(42)
	b := newAIBrain(42)

	q := Question{Text: "What does CSS stand for?", Answer: "Cascading Style Sheets"}
	for i := 0; i < 50; i++ {
		da := a.decide(q)
		db := b.decide(q)
		assert.Equal(t, da.delay, db.delay)
		assert.Equal(t, da.correct, db.correct)
		assert.Equal(t, da.guess, db.guess)
	}
}

func TestAIDelayBounds(t *testing.T) {
	brain := newAIBrain(1)
	q := Question{Text: "2+2", Answer: "4"}

	for i := 0; i < 200; i++ {
		d := brain.decide(q)
		assert.GreaterOrEqual(t, d.delay, time.Second)
		assert.LessOrEqual(t, d.delay, 8*time.Second)
	}
}

func TestAIMostlyAnswersCorrectly(t *testing.T) {
	brain := newAIBrain(1)
	q := Question{Text: "What year did the war end?", Answer: "1945"}

	correct := 0
	for i := 0; i < 200; i++ {
		if brain.decide(q).correct {
			correct++
		}
	}

	// Imperfect but competent.
	assert.Greater(t, correct, 140)
	assert.Less(t, correct, 200)
}

func TestSuccessRateByTopic(t *testing.T) {
	assert.Equal(t, 0.95, successRate("What does the JavaScript event loop do?"))
	assert.Equal(t, 0.95, successRate("Write a SQL query"))
	assert.Equal(t, 0.95, successRate("Design a REST API endpoint"))
	assert.Equal(t, 0.85, successRate("Who wrote the novel War and Peace?"))
	assert.Equal(t, 0.9, successRate("What is the capital of France?"))
}

func TestSuccessRateMatchesWholeWordsOnly(t *testing.T) {
	// "api" inside "capital", "rapid", "art" inside "Descartes": none
	// of these are programming or humanities questions.
	assert.Equal(t, 0.9, successRate("Name the capital city with the most rapid growth"))
	assert.Equal(t, 0.9, successRate("What did Descartes doubt?"))
}

func TestAICorrectMultipleChoiceDecision(t *testing.T) {
	brain := newAIBrain(1)
	q := Question{Text: "Pick", Options: []string{"a", "b", "c"}, CorrectOption: intPtr(2)}

	for i := 0; i < 100; i++ {
		d := brain.decide(q)
		require.NotNil(t, d.optionIndex)
		if d.correct {
			assert.Equal(t, 2, *d.optionIndex)
			assert.Equal(t, "c", d.guess)
		} else {
			assert.NotEqual(t, 2, *d.optionIndex)
		}
	}
}

func TestAICorrectFreeTextContainsAnswer(t *testing.T) {
	brain := newAIBrain(1)
	q := Question{Text: "2+2", Answer: "4"}

	for i := 0; i < 100; i++ {
		d := brain.decide(q)
		if d.correct {
			assert.Contains(t, d.guess, "4")
		}
	}
}

func TestWrongOptionNeverCorrect(t *testing.T) {
	brain := newAIBrain(7)
	q := Question{Text: "Pick", Options: []string{"a", "b", "c", "d"}, CorrectOption: intPtr(1)}

	for i := 0; i < 100; i++ {
		assert.NotEqual(t, 1, brain.wrongOption(q))
	}
}

func TestWrongFreeTextVariants(t *testing.T) {
	brain := newAIBrain(7)

	// Known confusable, matched case-insensitively.
	assert.Equal(t, "sass", brain.wrongFreeText("CSS"))
	assert.Equal(t, "java", brain.wrongFreeText("  JavaScript "))

	// Numeric answers go off by one.
	for i := 0; i < 20; i++ {
		miss := brain.wrongFreeText("4")
		n, err := strconv.Atoi(miss)
		require.NoError(t, err)
		assert.Contains(t, []int{3, 5}, n)
	}

	// Everything else draws a generic distractor.
	miss := brain.wrongFreeText("Ada Lovelace")
	assert.Contains(t, genericWrongGuesses, miss)
}

func TestPickNameAvoidsTaken(t *testing.T) {
	brain := newAIBrain(3)

	name := brain.pickName(func(candidate string) bool {
		return candidate == "QuizWhiz"
	})
	assert.NotEqual(t, "QuizWhiz", name)

	// With every base name taken, a numbered variant is produced.
	fallback := brain.pickName(func(string) bool { return true })
	assert.True(t, strings.Contains(fallback, " "), "expected a numbered fallback, got %q", fallback)
}

func TestPickTopicReturnsKnownPair(t *testing.T) {
	brain := newAIBrain(9)

	course, topic := brain.pickTopic()
	topics, ok := aiTopics[course]
	require.True(t, ok, "unknown course %q", course)
	assert.Contains(t, topics, topic)

	// Same seed, same pick.
	otherCourse, otherTopic := newAIBrain(9).pickTopic()
	assert.Equal(t, course, otherCourse)
	assert.Equal(t, topic, otherTopic)
}
