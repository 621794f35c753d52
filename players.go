package main

// Player holds the data we store server-side for one session member.
// Identity is connection-scoped: the playerID cookie for humans, a
// generated UUID for AI players.
type Player struct {
	ID       string
	Name     string
	Score    int
	Attempts int
	IsAI     bool
}

// PlayerInfo is the roster snapshot broadcast to clients whenever
// membership or scores change. Cached copies held by clients are
// invalidated by simply sending a fresh snapshot.
type PlayerInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	IsAI     bool   `json:"isAI"`
	IsMaster bool   `json:"isMaster"`
}

// roster keeps players in insertion order.
type roster struct {
	players []*Player
}

func (r *roster) add(p *Player) {
	r.players = append(r.players, p)
}

// remove deletes the player with the given ID and reports it, or nil if
// no such player exists.
func (r *roster) remove(id string) *Player {
	for i, p := range r.players {
		if p.ID == id {
			r.players = append(r.players[:i], r.players[i+1:]...)
			return p
		}
	}
	return nil
}

func (r *roster) byID(id string) *Player {
	for _, p := range r.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *roster) len() int {
	return len(r.players)
}

func (r *roster) humans() int {
	count := 0
	for _, p := range r.players {
		if !p.IsAI {
			count++
		}
	}
	return count
}

func (r *roster) hasAI() bool {
	for _, p := range r.players {
		if p.IsAI {
			return true
		}
	}
	return false
}

// resetAttempts is called between questions.
func (r *roster) resetAttempts() {
	for _, p := range r.players {
		p.Attempts = 0
	}
}

func (r *roster) resetScores() {
	for _, p := range r.players {
		p.Score = 0
		p.Attempts = 0
	}
}

// highestScore returns the leading player, or nil for an empty roster.
// Ties resolve to the earliest joiner.
func (r *roster) highestScore() *Player {
	var best *Player
	for _, p := range r.players {
		if best == nil || p.Score > best.Score {
			best = p
		}
	}
	return best
}

func (r *roster) snapshot(masterID string) []PlayerInfo {
	out := make([]PlayerInfo, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, PlayerInfo{
			ID:       p.ID,
			Name:     p.Name,
			Score:    p.Score,
			IsAI:     p.IsAI,
			IsMaster: p.ID == masterID,
		})
	}
	return out
}
