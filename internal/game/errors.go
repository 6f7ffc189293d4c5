package game

import (
	"errors"

	"github.com/HeJian358/BeastyBarOnline/internal/domain"
)

// Rule violations. They never mutate state.
var (
	ErrNotStarted    = errors.New("game not started")
	ErrGameOver      = errors.New("game is over")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrCardNotHeld   = errors.New("card not in hand")
	ErrUnknownTarget = errors.New("target not in queue")
	ErrInvalidJump   = errors.New("jump must be 1 or 2")
	ErrNoSelection   = errors.New("no card awaiting input")
	ErrBadInit       = errors.New("invalid game init")
)

// Receiver-side rejections of remote moves.
var (
	ErrSelfEcho    = errors.New("own move echoed back")
	ErrOutOfTurn   = errors.New("move author does not hold the turn")
	ErrStaleMove   = errors.New("move sequence already applied")
	ErrInvalidMove = domain.ErrInvalidMove
)

// ErrApplyFault wraps an unexpected failure inside the apply pipeline.
var ErrApplyFault = errors.New("apply failed")

// IsRuleViolation reports whether err is a user facing rule violation.
func IsRuleViolation(err error) bool {
	for _, target := range []error{
		ErrNotStarted, ErrGameOver, ErrNotYourTurn, ErrCardNotHeld,
		ErrUnknownTarget, ErrInvalidJump, ErrNoSelection,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
