// Quizbox session engine
//
// One Session per game ID, run as a single goroutine that owns all
// mutable state: the player roster, the question bank, the round timer
// handle, and the AI brain. Everything that wants to mutate a session
// (client messages, timer expiry, scheduled AI guesses, generated
// questions arriving from the collaborator) re-enters through channels
// and is processed in order, so concurrent guesses racing timer expiry
// resolve to exactly one round outcome.
//
// Deferred work carries the epoch of the question it was scheduled for.
// The epoch advances every time a question is presented; a stale event
// is dropped without side effects. Cancellation is advisory, the epoch
// check is what actually decides.

package main

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const pointsPerQuestion = 10

type sessionState int

const (
	stateSetup sessionState = iota
	stateActive
	stateTransition
	stateRoundEnding
	stateComplete
)

func (s sessionState) String() string {
	switch s {
	case stateSetup:
		return "SETUP"
	case stateActive:
		return "ACTIVE"
	case stateTransition:
		return "ROUND_TRANSITION"
	case stateRoundEnding:
		return "ROUND_ENDING"
	case stateComplete:
		return "COMPLETE"
	}
	return "UNKNOWN"
}

type joinRequest struct {
	client *client
	msg    ClientMessage
}

type masterCommand struct {
	client *client
	msg    ClientMessage
}

type guessRequest struct {
	client *client
	msg    ClientMessage
}

// Internal events posted back into the loop by deferred work.
type aiGuessEvent struct {
	epoch    int
	playerID string
	decision aiDecision
}

type nextQuestionEvent struct {
	epoch int
}

type genResultEvent struct {
	epoch     int
	masterID  string
	questions []Question
	err       error
}

type Session struct {
	id    string
	cfg   *Config
	dir   *SessionDirectory
	gen   QuestionGenerator
	brain *aiBrain

	clients map[*client]bool
	roster  roster

	masterID     string
	prevMasterID string

	questions []Question
	current   int // -1 before the first question
	round     int
	winners   []RoundWinner
	state     sessionState
	epoch     int
	timer     *roundTimer

	lastActive atomic.Int64

	register chan *client
	unreg    chan *client
	joins    chan joinRequest
	cmds     chan masterCommand
	guesses  chan guessRequest
	timers   chan timerEvent
	internal chan any

	quit     chan struct{}
	quitOnce sync.Once
}

func newSession(id string, cfg *Config, dir *SessionDirectory, gen QuestionGenerator) *Session {
	s := &Session{
		id:       id,
		cfg:      cfg,
		dir:      dir,
		gen:      gen,
		brain:    newAIBrain(cfg.aiSeed),
		clients:  make(map[*client]bool),
		current:  -1,
		state:    stateSetup,
		register: make(chan *client),
		unreg:    make(chan *client),
		joins:    make(chan joinRequest),
		cmds:     make(chan masterCommand),
		guesses:  make(chan guessRequest),
		timers:   make(chan timerEvent, 16),
		internal: make(chan any, 16),
		quit:     make(chan struct{}),
	}
	s.touch()
	return s
}

func (s *Session) run() {
	for {
		select {
		case <-s.quit:
			s.cleanup()
			return

		case c := <-s.register:
			s.handleRegister(c)

		case c := <-s.unreg:
			s.handleUnregister(c)

		case jr := <-s.joins:
			s.handleJoin(jr)

		case cmd := <-s.cmds:
			s.handleMasterCommand(cmd)

		case gr := <-s.guesses:
			s.handleGuess(gr)

		case ev := <-s.timers:
			s.handleTimer(ev)

		case ev := <-s.internal:
			switch ev := ev.(type) {
			case aiGuessEvent:
				s.handleAIGuess(ev)
			case nextQuestionEvent:
				s.handleNextQuestion(ev)
			case genResultEvent:
				s.handleGenResult(ev)
			}
		}

		s.touch()
	}
}

func (s *Session) shutdown() {
	s.quitOnce.Do(func() {
		close(s.quit)
	})
}

func (s *Session) cleanup() {
	if s.timer != nil {
		s.timer.cancel()
		s.timer = nil
	}

	for c := range s.clients {
		close(c.send)
		if c.conn != nil {
			_ = c.conn.Close()
		}
		delete(s.clients, c)
	}
}

func (s *Session) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

func (s *Session) idle(cutoff time.Time) bool {
	return time.Unix(0, s.lastActive.Load()).Before(cutoff)
}

// postTimer and postInternal are the only session methods safe to call
// from outside the run loop.
func (s *Session) postTimer(ev timerEvent) {
	select {
	case s.timers <- ev:
	case <-s.quit:
	}
}

func (s *Session) postInternal(ev any) {
	select {
	case s.internal <- ev:
	case <-s.quit:
	}
}

// ---- broadcast plumbing (fire-and-forget, slow clients are evicted) ----

func (s *Session) sendTo(c *client, msg any) {
	if !s.clients[c] {
		return
	}
	select {
	case c.send <- msg:
	default:
		delete(s.clients, c)
		close(c.send)
	}
}

func (s *Session) broadcast(msg any) {
	for c := range s.clients {
		s.sendTo(c, msg)
	}
}

func (s *Session) broadcastExcept(skip *client, msg any) {
	for c := range s.clients {
		if c == skip {
			continue
		}
		s.sendTo(c, msg)
	}
}

func (s *Session) sendError(c *client, err error) {
	s.sendTo(c, SimpleMessage{Type: "error", Message: err.Error()})
}

func (s *Session) broadcastPlayers() {
	s.broadcast(PlayersMessage{Type: "players", Players: s.roster.snapshot(s.masterID)})
}

func (s *Session) sessionInfo(c *client) SessionInfoMessage {
	return SessionInfoMessage{
		Type:     "session_info",
		GameID:   s.id,
		IsMaster: c.playerID == s.masterID,
		State:    s.state.String(),
		Round:    s.round + 1,
		Rounds:   s.cfg.totalRounds,
	}
}

// ---- connection lifecycle ----

func (s *Session) handleRegister(c *client) {
	s.clients[c] = true

	s.sendTo(c, s.sessionInfo(c))
	s.sendTo(c, PlayersMessage{Type: "players", Players: s.roster.snapshot(s.masterID)})

	// A rejoining client mid-question gets the live question again.
	if s.state == stateActive {
		s.sendTo(c, s.questionMessage())
	}
}

func (s *Session) handleUnregister(c *client) {
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}

	if c.playerID == "" {
		return
	}

	// Another tab with the same cookie keeps the player seated.
	for other := range s.clients {
		if other.playerID == c.playerID {
			return
		}
	}

	removed := s.roster.remove(c.playerID)
	if removed == nil {
		return
	}

	logf(s.cfg, "GAMES: Player %q left %s", removed.Name, s.id)
	s.broadcast(PlayerLeftMessage{Type: "player_left", Name: removed.Name})

	if s.roster.humans() == 0 {
		s.dir.remove(s.id)
		return
	}

	if removed.ID == s.masterID {
		next := s.roster.players[0]
		s.masterID = next.ID
		s.broadcast(NewMasterMessage{Type: "new_master", MasterName: next.Name})
		logf(s.cfg, "GAMES: Mastership of %s passed to %q", s.id, next.Name)
	}

	s.broadcastPlayers()
}

func (s *Session) handleJoin(jr joinRequest) {
	c := jr.client
	name := jr.msg.Name

	if name == "" || c.playerID == "" {
		return
	}

	// Applies to rejoins too, so a reconnecting player can't take over
	// someone else's name.
	for _, p := range s.roster.players {
		if p.Name == name && p.ID != c.playerID {
			s.sendTo(c, SimpleMessage{
				Type:    "name_taken",
				Message: "That name is already taken. Please choose a different name.",
			})
			return
		}
	}

	if existing := s.roster.byID(c.playerID); existing != nil {
		existing.Name = name
		s.broadcastPlayers()
		return
	}

	p := &Player{ID: c.playerID, Name: name}
	s.roster.add(p)

	// First player in becomes the game master.
	if s.masterID == "" {
		s.masterID = p.ID
	}

	logf(s.cfg, "GAMES: Player %q joined %s", name, s.id)

	s.sendTo(c, s.sessionInfo(c))
	s.broadcast(PlayerJoinedMessage{Type: "player_joined", Name: name, IsAI: false})
	s.broadcastPlayers()

	// A two-human lobby gets a bot opponent automatically.
	if s.roster.humans() == 2 && !s.roster.hasAI() {
		s.addAIPlayer()
	}
}

func (s *Session) addAIPlayer() {
	name := s.brain.pickName(func(candidate string) bool {
		for _, p := range s.roster.players {
			if p.Name == candidate {
				return true
			}
		}
		return false
	})

	p := &Player{ID: uuid.NewString(), Name: name, IsAI: true}
	s.roster.add(p)

	logf(s.cfg, "GAMES: AI player %q joined %s", name, s.id)
	s.broadcast(PlayerJoinedMessage{Type: "player_joined", Name: name, IsAI: true})
	s.broadcastPlayers()
}

// ---- master operations ----

func (s *Session) handleMasterCommand(cmd masterCommand) {
	c := cmd.client

	requester := s.roster.byID(c.playerID)
	if requester == nil || requester.ID != s.masterID {
		s.sendError(c, errNotMaster)
		return
	}

	switch cmd.msg.Type {
	case "add_questions":
		if s.state != stateSetup {
			s.sendError(c, errWrongState)
			return
		}

		accepted := filterQuestions(cmd.msg.Questions)
		if len(accepted) == 0 {
			s.sendError(c, errNoQuestions)
			return
		}

		s.questions = append(s.questions, accepted...)
		logf(s.cfg, "GAMES: %d questions added to %s", len(accepted), s.id)
		s.broadcast(QuestionsAddedMessage{
			Type:  "questions_added",
			Count: len(accepted),
			Total: len(s.questions),
		})

	case "start_game":
		if s.state != stateSetup {
			s.sendError(c, errWrongState)
			return
		}
		if len(s.questions) == 0 {
			s.sendError(c, errNoQuestions)
			return
		}

		logf(s.cfg, "GAMES: Game %s started by %q", s.id, requester.Name)
		s.current = 0
		s.presentQuestion()

	case "add_ai_player":
		if s.state != stateSetup {
			s.sendError(c, errWrongState)
			return
		}
		s.addAIPlayer()

	case "restart":
		if s.state != stateComplete {
			s.sendError(c, errWrongState)
			return
		}
		s.restart(requester)
	}
}

func (s *Session) restart(requester *Player) {
	s.roster.resetScores()
	s.questions = nil
	s.current = -1
	s.round = 0
	s.winners = nil
	s.state = stateSetup

	logf(s.cfg, "GAMES: Game %s restarted by %q", s.id, requester.Name)
	s.broadcast(GameRestartedMessage{
		Type:    "game_restarted",
		Master:  requester.Name,
		Players: s.roster.snapshot(s.masterID),
	})
}

// ---- question lifecycle ----

func (s *Session) questionMessage() QuestionMessage {
	q := s.questions[s.current]
	return QuestionMessage{
		Type:             "question",
		Question:         q.Text,
		Options:          q.Options,
		IsMultipleChoice: q.isMultipleChoice(),
		QuestionNumber:   s.current + 1,
		TotalQuestions:   len(s.questions),
		TimeLimit:        int(s.cfg.questionTime / time.Second),
	}
}

// presentQuestion makes questions[current] live: fresh epoch, fresh
// timer, AI guesses scheduled.
func (s *Session) presentQuestion() {
	s.epoch++
	s.state = stateActive
	s.roster.resetAttempts()

	// Starting a new timer implicitly replaces any previous one, but
	// callers are expected to have cancelled already.
	if s.timer != nil {
		s.timer.cancel()
	}
	s.timer = startRoundTimer(s.cfg.questionTime, s.epoch, s.postTimer)

	s.broadcast(s.questionMessage())

	q := s.questions[s.current]
	epoch := s.epoch
	for _, p := range s.roster.players {
		if !p.IsAI || p.ID == s.masterID {
			continue
		}

		decision := s.brain.decide(q)
		playerID := p.ID
		time.AfterFunc(decision.delay, func() {
			s.postInternal(aiGuessEvent{epoch: epoch, playerID: playerID, decision: decision})
		})
	}
}

func (s *Session) handleTimer(ev timerEvent) {
	if s.state != stateActive || ev.epoch != s.epoch {
		return
	}

	if !ev.expired {
		s.broadcast(TimerMessage{Type: "timer", TimeLeft: ev.timeLeft})
		return
	}

	// Nobody got it: the master takes the points for the question.
	winner := s.roster.byID(s.masterID)
	if winner == nil && s.roster.len() > 0 {
		winner = s.roster.players[0]
	}
	if winner == nil {
		return
	}

	logf(s.cfg, "GAMES: Question timed out in %s, points to master %q", s.id, winner.Name)
	s.endQuestion(winner)
}

func (s *Session) handleGuess(gr guessRequest) {
	c := gr.client

	p := s.roster.byID(c.playerID)
	if p == nil {
		s.sendTo(c, SimpleMessage{Type: "error", Message: "Join the game before guessing."})
		return
	}

	if s.state != stateActive {
		s.sendError(c, errStaleRound)
		return
	}

	if p.ID == s.masterID {
		s.sendError(c, errMasterGuess)
		return
	}

	if p.Attempts >= s.cfg.maxAttempts {
		s.sendError(c, errAttemptsExhausted)
		return
	}

	q := s.questions[s.current]

	if q.checkGuess(gr.msg.Guess, gr.msg.OptionIndex) {
		logf(s.cfg, "GAMES: %q answered correctly in %s", p.Name, s.id)
		s.endQuestion(p)
		return
	}

	p.Attempts++
	remaining := s.cfg.maxAttempts - p.Attempts

	s.sendTo(c, WrongGuessMessage{
		Type:              "wrong_guess",
		RemainingAttempts: remaining,
		Message:           fmt.Sprintf("Wrong guess, %d attempts left", remaining),
	})
	s.broadcastExcept(c, PlayerGuessedMessage{
		Type:              "player_guessed",
		PlayerName:        p.Name,
		RemainingAttempts: remaining,
	})
}

func (s *Session) handleAIGuess(ev aiGuessEvent) {
	// The round may have ended (or the game moved on) since this guess
	// was scheduled.
	if s.state != stateActive || ev.epoch != s.epoch {
		return
	}

	p := s.roster.byID(ev.playerID)
	if p == nil || p.ID == s.masterID || p.Attempts >= s.cfg.maxAttempts {
		return
	}

	if ev.decision.correct {
		logf(s.cfg, "GAMES: AI %q answered correctly in %s", p.Name, s.id)
		s.broadcast(AICorrectMessage{
			Type:       "ai_correct",
			PlayerName: p.Name,
			Answer:     ev.decision.guess,
		})
		s.endQuestion(p)
		return
	}

	p.Attempts++
	s.broadcast(PlayerGuessedMessage{
		Type:              "player_guessed",
		PlayerName:        p.Name,
		RemainingAttempts: s.cfg.maxAttempts - p.Attempts,
		Guess:             ev.decision.guess,
		IsAI:              true,
	})
}

// endQuestion settles the live question: points are awarded, the timer
// is cancelled, and either the next question is queued, or the round
// (and possibly the game) concludes.
func (s *Session) endQuestion(winner *Player) {
	if s.timer != nil {
		s.timer.cancel()
		s.timer = nil
	}

	winner.Score += pointsPerQuestion
	record := RoundWinner{ID: winner.ID, Name: winner.Name, IsAI: winner.IsAI}
	s.winners = append(s.winners, record)
	s.roster.resetAttempts()

	q := s.questions[s.current]
	s.broadcast(RoundEndedMessage{
		Type:        "round_ended",
		Winner:      record,
		Answer:      q.displayAnswer(),
		Scores:      s.roster.snapshot(s.masterID),
		Round:       s.round + 1,
		TotalRounds: s.cfg.totalRounds,
	})

	if s.current+1 < len(s.questions) {
		s.state = stateTransition
		epoch := s.epoch
		time.AfterFunc(s.cfg.transitionDelay, func() {
			s.postInternal(nextQuestionEvent{epoch: epoch})
		})
		return
	}

	s.finishRound()
}

func (s *Session) handleNextQuestion(ev nextQuestionEvent) {
	if s.state != stateTransition || ev.epoch != s.epoch {
		return
	}

	s.current++
	s.presentQuestion()
}

// finishRound runs when the question bank is exhausted: either the game
// ends, or mastership rotates to the round winner for the next round.
func (s *Session) finishRound() {
	s.round++
	s.questions = nil
	s.current = -1

	if s.round >= s.cfg.totalRounds {
		s.finishGame()
		return
	}

	next := s.nextMaster()
	s.prevMasterID = s.masterID
	s.masterID = next.ID
	s.state = stateSetup

	logf(s.cfg, "GAMES: Round %d of %s starts with master %q", s.round+1, s.id, next.Name)
	s.broadcast(NewRoundMessage{
		Type:        "new_round",
		RoundNumber: s.round + 1,
		TotalRounds: s.cfg.totalRounds,
		NewMaster:   next.Name,
		IsAIMaster:  next.IsAI,
	})
	s.broadcastPlayers()

	if next.IsAI {
		s.startAIHosting(next)
	}
}

// nextMaster picks the winner of the round that just finished, falling
// back to the current master if that player has since left.
func (s *Session) nextMaster() *Player {
	if len(s.winners) > 0 {
		if p := s.roster.byID(s.winners[len(s.winners)-1].ID); p != nil {
			return p
		}
	}
	if p := s.roster.byID(s.masterID); p != nil {
		return p
	}
	return s.roster.players[0]
}

func (s *Session) finishGame() {
	winner := s.roster.highestScore()
	if winner == nil {
		return
	}

	s.prevMasterID = s.masterID
	s.masterID = winner.ID
	s.round = 0
	s.state = stateComplete

	logf(s.cfg, "GAMES: Game %s over, %q wins with %d points", s.id, winner.Name, winner.Score)
	s.broadcast(GameEndedMessage{
		Type:        "game_ended",
		Winner:      RoundWinner{ID: winner.ID, Name: winner.Name, IsAI: winner.IsAI},
		WinnerScore: winner.Score,
		FinalScores: s.roster.snapshot(s.masterID),
		NewMaster:   winner.Name,
	})
	s.broadcastPlayers()
}

// ---- autonomous AI hosting ----

// startAIHosting kicks off question generation for an AI master. The
// network call runs outside the loop; its result re-enters tagged with
// the current epoch and the AI's identity, and is re-validated before
// being applied.
func (s *Session) startAIHosting(ai *Player) {
	s.state = stateRoundEnding

	course, topic := s.brain.pickTopic()
	multipleChoice := s.brain.rng.Intn(2) == 0

	logf(s.cfg, "GAMES: AI %q hosting %s with questions about %q", ai.Name, s.id, topic)
	s.broadcast(AIHostingMessage{
		Type:          "ai_hosting",
		AIName:        ai.Name,
		Topic:         topic,
		QuestionCount: aiQuestionCount,
	})

	epoch := s.epoch
	masterID := ai.ID
	go func() {
		ctx, cancel := generatorContext(s.cfg)
		defer cancel()

		questions, err := s.gen.Generate(ctx, course, topic, multipleChoice, aiQuestionCount)
		s.postInternal(genResultEvent{
			epoch:     epoch,
			masterID:  masterID,
			questions: questions,
			err:       err,
		})
	}()
}

func (s *Session) handleGenResult(ev genResultEvent) {
	if s.state != stateRoundEnding || ev.epoch != s.epoch || s.masterID != ev.masterID {
		return
	}

	if ev.err != nil || len(ev.questions) == 0 {
		s.revertAIMaster(ev.err)
		return
	}

	s.questions = ev.questions
	s.current = 0
	s.presentQuestion()
}

// revertAIMaster hands mastership back after a generation failure. The
// session stays playable: the restored master can add questions by hand.
func (s *Session) revertAIMaster(cause error) {
	logf(s.cfg, "GAMES: AI hosting failed in %s: %v", s.id, cause)

	prev := s.roster.byID(s.prevMasterID)
	if prev == nil && s.roster.len() > 0 {
		prev = s.roster.players[0]
	}
	if prev != nil {
		s.masterID = prev.ID
		s.broadcast(NewMasterMessage{Type: "new_master", MasterName: prev.Name})
	}

	s.state = stateSetup
	s.broadcast(SimpleMessage{
		Type:    "error",
		Message: "The AI host could not come up with questions. The previous game master is back in charge.",
	})
	s.broadcastPlayers()
}
