package main

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// AI opponents guess through the same evaluation path as humans. Each
// question, the brain draws a thinking delay and decides up front
// whether the guess will land; the result is scheduled and re-enters the
// session loop tagged with the current epoch, so a round that ends first
// turns the pending guess into a no-op.

const aiQuestionCount = 5

var aiNames = []string{
	"QuizWhiz",
	"Brainiac",
	"TriviaTron",
	"SmartyBot",
	"ProfessorByte",
}

// Success odds shift with subject matter: these bots read docs, not
// novels.
var programmingKeywords = []string{
	"javascript", "python", "html", "css", "code", "programming",
	"algorithm", "database", "api", "server", "function", "variable",
	"framework", "react", "http", "sql", "git", "compiler",
}

var humanitiesKeywords = []string{
	"history", "literature", "philosophy", "art", "music", "poetry",
	"novel", "painting", "century", "ancient", "culture", "language",
}

// Course/topic table for autonomous hosting, matching the study
// assistant's course catalogue.
var aiTopics = map[string][]string{
	"Frontend":        {"JavaScript fundamentals", "CSS layout", "React components", "responsive design"},
	"Backend":         {"REST APIs", "SQL databases", "authentication", "Node.js internals"},
	"Data Science":    {"statistics", "machine learning basics", "data visualization", "pandas"},
	"Cybersecurity":   {"encryption", "network security", "common vulnerabilities", "OWASP"},
	"Cloud Computing": {"containers", "serverless", "cloud storage", "load balancing"},
	"DevOps":          {"CI/CD pipelines", "infrastructure as code", "monitoring", "Kubernetes"},
}

var answerPhrasings = []string{
	"%s",
	"%s!",
	"It's %s",
	"I think it's %s",
	"Definitely %s",
}

// Common confusables for near-miss wrong guesses on free-text questions.
var confusables = map[string]string{
	"java":       "javascript",
	"javascript": "java",
	"css":        "sass",
	"html":       "xml",
	"http":       "https",
	"sql":        "nosql",
	"margin":     "padding",
	"padding":    "margin",
	"git":        "github",
	"react":      "angular",
	"python":     "ruby",
}

var genericWrongGuesses = []string{
	"JavaScript",
	"recursion",
	"the DOM",
	"HTTP",
	"polymorphism",
	"a hash table",
}

type aiDecision struct {
	delay       time.Duration
	correct     bool
	guess       string
	optionIndex *int
}

// aiBrain owns a private randomness source so behavior is reproducible
// under a fixed seed. It is only ever touched from the session loop.
type aiBrain struct {
	rng *rand.Rand
}

func newAIBrain(seed int64) *aiBrain {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &aiBrain{
		rng: rand.New(rand.NewSource(seed)),
	}
}

func (b *aiBrain) pickName(taken func(string) bool) string {
	for i := 0; i < len(aiNames)*2; i++ {
		name := aiNames[b.rng.Intn(len(aiNames))]
		if !taken(name) {
			return name
		}
	}
	return fmt.Sprintf("%s %d", aiNames[b.rng.Intn(len(aiNames))], b.rng.Intn(90)+10)
}

func (b *aiBrain) pickTopic() (course string, topic string) {
	courses := make([]string, 0, len(aiTopics))
	for c := range aiTopics {
		courses = append(courses, c)
	}
	// Map order is random, but seeded runs must be stable.
	sort.Strings(courses)

	course = courses[b.rng.Intn(len(courses))]
	topics := aiTopics[course]
	return course, topics[b.rng.Intn(len(topics))]
}

// successRate is topic-sensitive: programming questions are easier for
// the bots, humanities harder. Keywords match whole words only, so
// "api" doesn't fire on "capital".
func successRate(questionText string) float64 {
	words := strings.FieldsFunc(strings.ToLower(questionText), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	matches := func(keywords []string) bool {
		for _, w := range words {
			for _, kw := range keywords {
				if w == kw {
					return true
				}
			}
		}
		return false
	}

	if matches(programmingKeywords) {
		return 0.95
	}
	if matches(humanitiesKeywords) {
		return 0.85
	}
	return 0.9
}

// decide draws one complete AI action for the given question.
func (b *aiBrain) decide(q Question) aiDecision {
	var d aiDecision

	// Short delay simulates a known answer; occasionally the bot has to
	// "think" longer.
	if b.rng.Float64() < 0.9 {
		d.delay = time.Second + time.Duration(b.rng.Float64()*float64(3*time.Second))
	} else {
		d.delay = 4*time.Second + time.Duration(b.rng.Float64()*float64(4*time.Second))
	}

	d.correct = b.rng.Float64() < successRate(q.Text)

	if d.correct {
		if q.isMultipleChoice() {
			idx := *q.CorrectOption
			d.optionIndex = &idx
			d.guess = q.Options[idx]
		} else {
			d.guess = fmt.Sprintf(answerPhrasings[b.rng.Intn(len(answerPhrasings))], q.Answer)
		}
		return d
	}

	if q.isMultipleChoice() {
		idx := b.wrongOption(q)
		d.optionIndex = &idx
		d.guess = q.Options[idx]
	} else {
		d.guess = b.wrongFreeText(q.Answer)
	}

	return d
}

func (b *aiBrain) wrongOption(q Question) int {
	if len(q.Options) < 2 {
		return *q.CorrectOption
	}
	for {
		idx := b.rng.Intn(len(q.Options))
		if idx != *q.CorrectOption {
			return idx
		}
	}
}

// wrongFreeText produces a plausible near-miss: a known confusable, a
// numeric answer off by one, or a generic distractor.
func (b *aiBrain) wrongFreeText(answer string) string {
	key := strings.ToLower(strings.TrimSpace(answer))

	if miss, ok := confusables[key]; ok {
		return miss
	}

	if n, err := strconv.Atoi(key); err == nil {
		if b.rng.Intn(2) == 0 {
			return strconv.Itoa(n + 1)
		}
		return strconv.Itoa(n - 1)
	}

	return genericWrongGuesses[b.rng.Intn(len(genericWrongGuesses))]
}
