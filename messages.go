package main

// Messages coming from clients
type ClientMessage struct {
	Type        string     `json:"type"`                  // "join", "add_questions", "start_game", "add_ai_player", "guess", "restart"
	Name        string     `json:"name,omitempty"`        // join
	Questions   []Question `json:"questions,omitempty"`   // add_questions
	Guess       string     `json:"guess,omitempty"`       // guess
	OptionIndex *int       `json:"optionIndex,omitempty"` // guess
}

// Messages sent to clients

// SimpleMessage is for generic notifications ("error", "game_restarted", etc.)
type SimpleMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// SessionInfoMessage is sent immediately on connect so the client knows
// what role this cookie has and where the game stands.
type SessionInfoMessage struct {
	Type     string `json:"type"` // "session_info"
	GameID   string `json:"game_id"`
	IsMaster bool   `json:"is_master"`
	State    string `json:"state"`
	Round    int    `json:"round"`
	Rounds   int    `json:"rounds"`
}

type PlayerJoinedMessage struct {
	Type string `json:"type"` // "player_joined"
	Name string `json:"name"`
	IsAI bool   `json:"isAI"`
}

type PlayerLeftMessage struct {
	Type string `json:"type"` // "player_left"
	Name string `json:"name"`
}

type PlayersMessage struct {
	Type    string       `json:"type"` // "players"
	Players []PlayerInfo `json:"players"`
}

type QuestionsAddedMessage struct {
	Type  string `json:"type"` // "questions_added"
	Count int    `json:"count"`
	Total int    `json:"total"`
}

// QuestionMessage presents the live question. The answer and the correct
// option index never leave the server.
type QuestionMessage struct {
	Type             string   `json:"type"` // "question"
	Question         string   `json:"question"`
	Options          []string `json:"options,omitempty"`
	IsMultipleChoice bool     `json:"isMultipleChoice"`
	QuestionNumber   int      `json:"questionNumber"`
	TotalQuestions   int      `json:"totalQuestions"`
	TimeLimit        int      `json:"timeLimit"`
}

type TimerMessage struct {
	Type     string `json:"type"` // "timer"
	TimeLeft int    `json:"timeLeft"`
}

// WrongGuessMessage goes only to the guesser.
type WrongGuessMessage struct {
	Type              string `json:"type"` // "wrong_guess"
	RemainingAttempts int    `json:"remainingAttempts"`
	Message           string `json:"message"`
}

// PlayerGuessedMessage is the lower-detail notice the rest of the session
// sees after a wrong guess. Guess text is included only for AI players,
// whose wrong guesses are part of the show.
type PlayerGuessedMessage struct {
	Type              string `json:"type"` // "player_guessed"
	PlayerName        string `json:"playerName"`
	RemainingAttempts int    `json:"remainingAttempts"`
	Guess             string `json:"guess,omitempty"`
	IsAI              bool   `json:"isAI"`
}

type AICorrectMessage struct {
	Type       string `json:"type"` // "ai_correct"
	PlayerName string `json:"playerName"`
	Answer     string `json:"answer"`
}

type RoundWinner struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	IsAI bool   `json:"isAI"`
}

type RoundEndedMessage struct {
	Type        string       `json:"type"` // "round_ended"
	Winner      RoundWinner  `json:"winner"`
	Answer      string       `json:"answer"`
	Scores      []PlayerInfo `json:"scores"`
	Round       int          `json:"round"`
	TotalRounds int          `json:"totalRounds"`
}

type NewRoundMessage struct {
	Type        string `json:"type"` // "new_round"
	RoundNumber int    `json:"roundNumber"`
	TotalRounds int    `json:"totalRounds"`
	NewMaster   string `json:"newMaster"`
	IsAIMaster  bool   `json:"isAIMaster"`
}

type AIHostingMessage struct {
	Type          string `json:"type"` // "ai_hosting"
	AIName        string `json:"aiName"`
	Topic         string `json:"topic"`
	QuestionCount int    `json:"questionCount"`
}

type GameEndedMessage struct {
	Type        string       `json:"type"` // "game_ended"
	Winner      RoundWinner  `json:"winner"`
	WinnerScore int          `json:"winnerScore"`
	FinalScores []PlayerInfo `json:"finalScores"`
	NewMaster   string       `json:"newMaster"`
}

type NewMasterMessage struct {
	Type       string `json:"type"` // "new_master"
	MasterName string `json:"masterName"`
}

type GameRestartedMessage struct {
	Type    string       `json:"type"` // "game_restarted"
	Master  string       `json:"master"`
	Players []PlayerInfo `json:"players"`
}
