package domain

import (
	"errors"
	"fmt"
)

var ErrInvalidMove = errors.New("invalid move")

// MoveExtra carries skill parameters: TargetUID for the parrot,
// Jump for the kangaroo.
type MoveExtra struct {
	TargetUID string `json:"targetUid,omitempty"`
	Jump      int    `json:"jump,omitempty"`
}

// Move is the wire and record form of a played card.
type Move struct {
	CardUID  string    `json:"cardUid"`
	CardKind Kind      `json:"cardKind"`
	Power    int       `json:"power"`
	AuthorID string    `json:"authorId"`
	Seq      uint64    `json:"seq"`
	Extra    MoveExtra `json:"extra"`
}

// Card rebuilds the played card from the record.
func (m Move) Card() Card {
	return NewCard(m.CardUID, m.CardKind)
}

// Validate checks the record is self-consistent. It says nothing about
// whether the move is legal in the current game.
func (m Move) Validate() error {
	if m.CardUID == "" || m.AuthorID == "" {
		return fmt.Errorf("%w: missing card uid or author", ErrInvalidMove)
	}
	if !m.CardKind.Valid() {
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidMove, uint8(m.CardKind))
	}
	if m.Power != m.CardKind.Power() {
		return fmt.Errorf("%w: %s has power %d, got %d", ErrInvalidMove, m.CardKind, m.CardKind.Power(), m.Power)
	}
	if m.CardKind == KindKangaroo && !ValidJump(m.Extra.Jump) {
		return fmt.Errorf("%w: kangaroo jump %d", ErrInvalidMove, m.Extra.Jump)
	}
	return nil
}

// ValidJump reports whether n is an allowed kangaroo distance.
func ValidJump(n int) bool {
	return n == 1 || n == 2
}
