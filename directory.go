package main

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"
)

// SessionDirectory is the process-wide registry of live sessions, keyed
// by short shareable game IDs. IDs are case-insensitive; the canonical
// form is upper case. Sessions are created on first player join and
// removed when the last human leaves, with an idle reaper as backstop.
type SessionDirectory struct {
	mu       sync.Mutex
	sessions map[string]*Session
	cfg      *Config
	gen      QuestionGenerator
}

func newSessionDirectory(cfg *Config, gen QuestionGenerator) *SessionDirectory {
	d := &SessionDirectory{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		gen:      gen,
	}
	if cfg.sessionTimeout > 0 {
		go d.reaperLoop()
	}
	return d
}

func normalizeGameID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// find returns the live session for id, or nil.
func (d *SessionDirectory) find(id string) *Session {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.sessions[normalizeGameID(id)]
}

// getOrCreate returns the session for id, creating and starting it on
// first use.
func (d *SessionDirectory) getOrCreate(id string) *Session {
	id = normalizeGameID(id)

	d.mu.Lock()
	defer d.mu.Unlock()

	if s, ok := d.sessions[id]; ok {
		return s
	}

	s := newSession(id, d.cfg, d, d.gen)
	d.sessions[id] = s
	go s.run()

	logf(d.cfg, "GAMES: Created game %s", id)

	return s
}

// remove tears the session down. Safe to call from the session's own
// loop (the loop observes the closed quit channel on its next pass).
func (d *SessionDirectory) remove(id string) {
	id = normalizeGameID(id)

	d.mu.Lock()
	s, ok := d.sessions[id]
	if ok {
		delete(d.sessions, id)
	}
	d.mu.Unlock()

	if ok {
		logf(d.cfg, "GAMES: Removed game %s", id)
		s.shutdown()
	}
}

func (d *SessionDirectory) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.sessions)
}

const gameIDLength = 6

// validGameID filters stale or garbled identifiers before they reach
// the directory, so a typo in a shared link doesn't spawn an empty game.
func validGameID(id string) bool {
	if len(id) != gameIDLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// newGameID generates a crypto-random game ID and ensures it doesn't
// collide with a live game. The ID space is large enough that this loop
// all but never repeats, but checking is cheap.
func (d *SessionDirectory) newGameID() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	for {
		buf := make([]byte, gameIDLength)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		out := make([]byte, gameIDLength)
		for i := range out {
			out[i] = letters[int(buf[i])%len(letters)]
		}
		id := string(out)

		d.mu.Lock()
		_, exists := d.sessions[id]
		d.mu.Unlock()

		if !exists {
			return id
		}
	}
}

// reaperLoop periodically removes sessions that have been idle longer
// than the configured timeout.
func (d *SessionDirectory) reaperLoop() {
	ticker := time.NewTicker(d.cfg.sessionTimeout / 2)
	for range ticker.C {
		cutoff := time.Now().Add(-d.cfg.sessionTimeout)

		d.mu.Lock()
		stale := make([]string, 0)
		for id, s := range d.sessions {
			if s.idle(cutoff) {
				stale = append(stale, id)
			}
		}
		d.mu.Unlock()

		for _, id := range stale {
			logf(d.cfg, "GAMES: Reaping idle game %s", id)
			d.remove(id)
		}
	}
}
