package game

import (
	"slices"

	"github.com/HeJian358/BeastyBarOnline/internal/domain"
)

// Result is the final score once every card has been played.
type Result struct {
	Scores  map[string]int `json:"scores"`
	Winners []string       `json:"winners"`
}

// Snapshot is a deep copy of the replica handed to the presentation layer.
type Snapshot struct {
	LocalID         string              `json:"local_id"`
	MatchID         string              `json:"match_id,omitempty"`
	Started         bool                `json:"started"`
	Finished        bool                `json:"finished"`
	Players         []domain.Player     `json:"players"`
	Turn            int                 `json:"turn"`
	CurrentPlayerID string              `json:"current_player_id,omitempty"`
	MyTurn          bool                `json:"my_turn"`
	Queue           []domain.QueueEntry `json:"queue"`
	Hand            []domain.Card       `json:"hand"`
	DeckCount       int                 `json:"deck_count"`
	Bar             []domain.QueueEntry `json:"bar"`
	Discard         []domain.QueueEntry `json:"discard"`
	Moves           int                 `json:"moves"`
	Pending         *PendingView        `json:"pending,omitempty"`
	Result          *Result             `json:"result,omitempty"`
}

func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		LocalID:         e.localID,
		MatchID:         e.matchID,
		Started:         e.started,
		Finished:        e.finished,
		Players:         slices.Clone(e.players),
		Turn:            e.turn.Index,
		CurrentPlayerID: e.CurrentPlayerID(),
		MyTurn:          e.IsMyTurn(),
		Queue:           slices.Clone(e.queue),
		Hand:            slices.Clone(e.hand),
		DeckCount:       len(e.deck),
		Bar:             slices.Clone(e.bar),
		Discard:         slices.Clone(e.discard),
		Moves:           e.moves,
		Pending:         e.pendingView(),
	}
	if e.finished {
		s.Result = e.Result()
	}
	return s
}

// Result counts bar entries per owner. Every seated player has a score;
// winners are listed in seat order and share the win on a tie.
func (e *Engine) Result() *Result {
	r := &Result{Scores: make(map[string]int, len(e.players))}
	for _, p := range e.players {
		r.Scores[p.ID] = 0
	}
	for _, q := range e.bar {
		r.Scores[q.OwnerID]++
	}
	best := -1
	for _, p := range e.players {
		switch score := r.Scores[p.ID]; {
		case score > best:
			best = score
			r.Winners = []string{p.ID}
		case score == best:
			r.Winners = append(r.Winners, p.ID)
		}
	}
	return r
}
