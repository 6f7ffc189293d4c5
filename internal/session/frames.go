package session

import (
	"errors"

	"github.com/HeJian358/BeastyBarOnline/internal/domain"
	"github.com/HeJian358/BeastyBarOnline/internal/game"
	"github.com/HeJian358/BeastyBarOnline/internal/ws"
)

func (s *Session) handleFrame(from string, env ws.Envelope) {
	switch env.Type {
	case ws.MsgUserJoined:
		s.onUserJoined(env)
	case ws.MsgSyncStatus:
		s.onSyncStatus(env)
	case ws.MsgPlayerReady:
		s.onPlayerReady(env)
	case ws.MsgGameInit:
		s.onGameInit(from, env)
	case ws.MsgGameMove:
		s.onGameMove(from, env)
	case ws.MsgUserLeft:
		s.onUserLeft(env)
	default:
		s.log.Debug("unhandled frame", "from", from, "type", env.Type)
	}
}

func (s *Session) onUserJoined(env ws.Envelope) {
	p, err := ws.DecodePayload[ws.PeerPayload](env)
	if err != nil || p.PeerID == "" {
		s.log.Warn("bad join payload", "error", err)
		return
	}
	s.peer(p.PeerID)
	if err := s.t.SendTo(p.PeerID, ws.MustEncode(ws.MsgSyncStatus, s.selfStatus())); err != nil {
		s.log.Warn("status not sent", "peer", p.PeerID, "error", err)
	}
	s.log.Info("player joined", "peer", p.PeerID)
	s.notify(info("player joined: " + shortID(p.PeerID)))
}

func (s *Session) onSyncStatus(env ws.Envelope) {
	st, err := ws.DecodePayload[ws.StatusPayload](env)
	if err != nil || st.ID == "" {
		s.log.Warn("bad status payload", "error", err)
		return
	}
	p := s.peer(st.ID)
	p.Nick = st.Nick
	p.IsReady = st.IsReady
	p.IsHost = st.IsHost
	s.notify(nil)
}

func (s *Session) onPlayerReady(env ws.Envelope) {
	r, err := ws.DecodePayload[ws.ReadyPayload](env)
	if err != nil || r.ID == "" {
		s.log.Warn("bad ready payload", "error", err)
		return
	}
	s.peer(r.ID).IsReady = r.IsReady
	s.notify(nil)
}

func (s *Session) onUserLeft(env ws.Envelope) {
	p, err := ws.DecodePayload[ws.PeerPayload](env)
	if err != nil {
		return
	}
	delete(s.lobby, p.PeerID)
	s.log.Info("player left", "peer", p.PeerID)
	s.notify(info("player left: " + shortID(p.PeerID)))
}

func (s *Session) onGameInit(from string, env ws.Envelope) {
	p, err := ws.DecodePayload[ws.InitPayload](env)
	if err != nil {
		s.log.Warn("bad init payload", "from", from, "error", err)
		return
	}
	if err := s.initGame(p); err != nil {
		s.log.Warn("game init rejected", "from", from, "error", err)
		s.notify(warn(err.Error()))
	}
}

func (s *Session) initGame(p ws.InitPayload) error {
	err := s.engine.Init(game.InitParams{
		Order:  p.Order,
		DeckID: p.DeckID,
		Seed:   p.Seed,
		Nicks:  p.NicksMap,
	})
	if err != nil {
		return err
	}
	gamesStarted.Inc()
	s.notify(info("game started"))
	return nil
}

func (s *Session) onGameMove(from string, env ws.Envelope) {
	m, err := ws.DecodePayload[domain.Move](env)
	if err != nil {
		movesRejected.WithLabelValues("malformed").Inc()
		s.log.Warn("bad move payload", "from", from, "error", err)
		return
	}
	out, err := s.engine.OnRemoteMove(m)
	if err != nil {
		reason := rejectReason(err)
		movesRejected.WithLabelValues(reason).Inc()
		if errors.Is(err, game.ErrSelfEcho) {
			s.log.Debug("own move echoed", "seq", m.Seq)
			return
		}
		s.log.Warn("remote move rejected", "from", from, "author", m.AuthorID, "seq", m.Seq, "reason", reason, "error", err)
		if errors.Is(err, game.ErrApplyFault) {
			s.notify(failureNotice)
		}
		return
	}
	movesApplied.WithLabelValues("remote").Inc()
	s.afterApply(out)
	s.notify(nil)
}

// afterApply archives what the move settled and, at the end, the result.
func (s *Session) afterApply(out game.Outcome) {
	if out.Settlement != nil {
		settlements.Inc()
		s.archiveSettlement(out.Settlement)
	}
	if out.Finished {
		res := s.engine.Result()
		s.log.Info("game finished", "match", s.engine.MatchID(), "winners", res.Winners, "scores", res.Scores)
		s.archiveResult(res)
	}
}

var failureNotice = &Notice{Level: "error", Message: "move could not be applied"}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, game.ErrSelfEcho):
		return "self_echo"
	case errors.Is(err, game.ErrOutOfTurn):
		return "out_of_turn"
	case errors.Is(err, game.ErrStaleMove):
		return "stale"
	case errors.Is(err, game.ErrInvalidMove):
		return "invalid"
	case errors.Is(err, game.ErrNotStarted):
		return "not_started"
	case errors.Is(err, game.ErrGameOver):
		return "game_over"
	case errors.Is(err, game.ErrApplyFault):
		return "fault"
	default:
		return "other"
	}
}

func shortID(id string) string {
	if len(id) > 5 {
		return id[:5]
	}
	return id
}
