package domain

import "time"

// SettlementRecord is one gate settlement as stored in the match archive.
type SettlementRecord struct {
	ID        int64        `json:"id"`
	MatchID   string       `json:"match_id"`
	PeerID    string       `json:"peer_id"`
	MoveSeq   int          `json:"move_seq"`
	Scored    []QueueEntry `json:"scored"`
	Discarded []QueueEntry `json:"discarded"`
	CreatedAt time.Time    `json:"created_at"`
}

// MatchResult is the final outcome of a finished game.
type MatchResult struct {
	ID        int64          `json:"id"`
	MatchID   string         `json:"match_id"`
	PeerID    string         `json:"peer_id"`
	Scores    map[string]int `json:"scores"`
	Winners   []string       `json:"winners"`
	Moves     int            `json:"moves"`
	CreatedAt time.Time      `json:"created_at"`
}
