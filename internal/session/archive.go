package session

import (
	"context"

	"github.com/HeJian358/BeastyBarOnline/internal/domain"
	"github.com/HeJian358/BeastyBarOnline/internal/game"
)

func (s *Session) archiveSettlement(st *game.Settlement) {
	if s.archive == nil {
		return
	}
	rec := &domain.SettlementRecord{
		MatchID:   s.engine.MatchID(),
		PeerID:    s.t.LocalID(),
		MoveSeq:   s.engine.Moves(),
		Scored:    st.Scored,
		Discarded: st.Discarded,
	}
	s.spawn(func() {
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		if err := s.archive.SaveSettlement(ctx, rec); err != nil {
			archiveErrors.Inc()
			s.log.Error("archive settlement", "match", rec.MatchID, "error", err)
		}
	})
}

func (s *Session) archiveResult(r *game.Result) {
	if s.archive == nil {
		return
	}
	res := &domain.MatchResult{
		MatchID: s.engine.MatchID(),
		PeerID:  s.t.LocalID(),
		Scores:  r.Scores,
		Winners: r.Winners,
		Moves:   s.engine.Moves(),
	}
	s.spawn(func() {
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		if err := s.archive.SaveResult(ctx, res); err != nil {
			archiveErrors.Inc()
			s.log.Error("archive result", "match", res.MatchID, "error", err)
		}
	})
}
