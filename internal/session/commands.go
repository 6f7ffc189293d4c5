package session

import (
	"context"
	"errors"
	"math/rand/v2"

	"github.com/HeJian358/BeastyBarOnline/internal/game"
	"github.com/HeJian358/BeastyBarOnline/internal/ws"
)

// ToggleReady flips the local ready flag and announces it.
func (s *Session) ToggleReady(ctx context.Context) (bool, error) {
	return call(ctx, s, func() (bool, error) { return s.toggleReady(), nil })
}

// Start deals a new game. The host must be ready first: the first call
// on an unready host only readies it and returns false.
func (s *Session) Start(ctx context.Context) (bool, error) {
	return call(ctx, s, s.start)
}

// Connect joins another node. Joining someone makes this node a guest.
func (s *Session) Connect(ctx context.Context, addr string) error {
	_, err := call(ctx, s, func() (struct{}, error) {
		s.host = false
		s.notify(nil)
		return struct{}{}, nil
	})
	if err != nil {
		return err
	}
	if err := s.t.Dial(ctx, addr); err != nil {
		s.log.Warn("connect failed", "addr", addr, "error", err)
		return err
	}
	return nil
}

func (s *Session) Select(ctx context.Context, cardUID string) (game.Interaction, error) {
	return call(ctx, s, func() (game.Interaction, error) { return s.selectCard(cardUID) })
}

func (s *Session) ConfirmTarget(ctx context.Context, targetUID string) (game.Outcome, error) {
	return call(ctx, s, func() (game.Outcome, error) {
		return s.played(s.engine.ConfirmTarget(targetUID))
	})
}

func (s *Session) ConfirmJump(ctx context.Context, jump int) (game.Outcome, error) {
	return call(ctx, s, func() (game.Outcome, error) {
		return s.played(s.engine.ConfirmJump(jump))
	})
}

// Cancel drops a pending selection and reports whether there was one.
func (s *Session) Cancel(ctx context.Context) (bool, error) {
	return call(ctx, s, func() (bool, error) {
		ok := s.engine.CancelSelection()
		if ok {
			s.notify(nil)
		}
		return ok, nil
	})
}

func (s *Session) Snapshot(ctx context.Context) (game.Snapshot, error) {
	return call(ctx, s, func() (game.Snapshot, error) { return s.engine.Snapshot(), nil })
}

func (s *Session) Lobby(ctx context.Context) ([]PeerStatus, error) {
	return call(ctx, s, func() ([]PeerStatus, error) { return s.lobbyView(), nil })
}

func (s *Session) toggleReady() bool {
	s.ready = !s.ready
	s.t.Broadcast(ws.MustEncode(ws.MsgPlayerReady, ws.ReadyPayload{ID: s.t.LocalID(), IsReady: s.ready}))
	s.notify(nil)
	return s.ready
}

func (s *Session) start() (bool, error) {
	if !s.host {
		return false, ErrNotHost
	}
	if !s.ready {
		s.toggleReady()
		return false, nil
	}

	self := s.t.LocalID()
	order := append(s.t.PeerIDs(), self)
	rand.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	nicks := make(map[string]string, len(order))
	for _, id := range order {
		switch p := s.lobby[id]; {
		case id == self:
			nicks[id] = s.nick
		case p != nil && p.Nick != "":
			nicks[id] = p.Nick
		default:
			nicks[id] = defaultNick
		}
	}

	params := ws.InitPayload{
		Order:    order,
		DeckID:   s.deckID,
		Seed:     s.now().UnixMilli(),
		NicksMap: nicks,
	}
	n := s.t.Broadcast(ws.MustEncode(ws.MsgGameInit, params))
	s.log.Info("hosting game", "players", len(order), "sent", n)
	if err := s.initGame(params); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Session) selectCard(uid string) (game.Interaction, error) {
	in, err := s.engine.Select(uid)
	if err != nil {
		s.refused(err)
		return in, err
	}
	if in.Outcome != nil {
		s.local(*in.Outcome)
		return in, nil
	}
	s.notify(nil)
	return in, nil
}

// played finishes a confirmed selection.
func (s *Session) played(out game.Outcome, err error) (game.Outcome, error) {
	if err != nil {
		s.refused(err)
		return out, err
	}
	s.local(out)
	return out, nil
}

func (s *Session) local(out game.Outcome) {
	movesApplied.WithLabelValues("local").Inc()
	s.afterApply(out)
	s.notify(nil)
}

func (s *Session) refused(err error) {
	if errors.Is(err, game.ErrApplyFault) {
		s.log.Error("local move fault", "error", err)
		s.notify(failureNotice)
		return
	}
	s.notify(warn(err.Error()))
}
