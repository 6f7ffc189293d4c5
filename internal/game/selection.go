package game

import "github.com/HeJian358/BeastyBarOnline/internal/domain"

// SelectionState is the local two-phase play state.
type SelectionState int

const (
	SelectionIdle SelectionState = iota
	SelectionAwaitingTarget
	SelectionAwaitingParameter
)

func (s SelectionState) String() string {
	switch s {
	case SelectionIdle:
		return "idle"
	case SelectionAwaitingTarget:
		return "awaiting_target"
	case SelectionAwaitingParameter:
		return "awaiting_parameter"
	default:
		return "unknown"
	}
}

// Selection holds the card waiting for a target or a jump distance.
// It is never sent over the wire.
type Selection struct {
	State SelectionState
	Card  domain.Card
}

// PendingView is the read-only form of a pending selection.
type PendingView struct {
	State string      `json:"state"`
	Card  domain.Card `json:"card"`
}

// Interaction is the result of selecting a card.
type Interaction struct {
	Cancelled bool         `json:"cancelled,omitempty"`
	Pending   *PendingView `json:"pending,omitempty"`
	Outcome   *Outcome     `json:"outcome,omitempty"`
}

func (e *Engine) pendingView() *PendingView {
	if e.selection.State == SelectionIdle {
		return nil
	}
	return &PendingView{State: e.selection.State.String(), Card: e.selection.Card}
}

// Select is the entry point for a click on a hand card. A parrot facing a
// non-empty queue waits for a target and a kangaroo waits for its jump;
// every other card is played at once. Selecting anything while a card is
// pending clears the pending card.
func (e *Engine) Select(cardUID string) (Interaction, error) {
	if err := e.canAct(); err != nil {
		e.log.Info("selection refused", "card", cardUID, "reason", err)
		return Interaction{}, err
	}
	if e.selection.State != SelectionIdle {
		e.log.Debug("selection cancelled", "card", e.selection.Card.UID)
		e.selection = Selection{}
		return Interaction{Cancelled: true}, nil
	}
	card, ok := e.handCard(cardUID)
	if !ok {
		return Interaction{}, ErrCardNotHeld
	}

	switch {
	case card.Kind == domain.KindParrot && len(e.queue) > 0:
		e.selection = Selection{State: SelectionAwaitingTarget, Card: card}
		return Interaction{Pending: e.pendingView()}, nil
	case card.Kind == domain.KindKangaroo:
		e.selection = Selection{State: SelectionAwaitingParameter, Card: card}
		return Interaction{Pending: e.pendingView()}, nil
	}

	out, err := e.AuthorMove(card.UID, domain.MoveExtra{})
	if err != nil {
		return Interaction{}, err
	}
	return Interaction{Outcome: &out}, nil
}

// ConfirmTarget completes a pending parrot. An unknown target keeps the
// selection pending.
func (e *Engine) ConfirmTarget(targetUID string) (Outcome, error) {
	if e.selection.State != SelectionAwaitingTarget {
		return Outcome{}, ErrNoSelection
	}
	if !e.queued(targetUID) {
		return Outcome{}, ErrUnknownTarget
	}
	return e.complete(domain.MoveExtra{TargetUID: targetUID})
}

// ConfirmJump completes a pending kangaroo.
func (e *Engine) ConfirmJump(jump int) (Outcome, error) {
	if e.selection.State != SelectionAwaitingParameter {
		return Outcome{}, ErrNoSelection
	}
	if !domain.ValidJump(jump) {
		return Outcome{}, ErrInvalidJump
	}
	return e.complete(domain.MoveExtra{Jump: jump})
}

// CancelSelection drops the pending card. It reports whether anything
// was pending.
func (e *Engine) CancelSelection() bool {
	pending := e.selection.State != SelectionIdle
	e.selection = Selection{}
	return pending
}

func (e *Engine) complete(extra domain.MoveExtra) (Outcome, error) {
	card := e.selection.Card
	e.selection = Selection{}
	return e.AuthorMove(card.UID, extra)
}
