package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/HeJian358/BeastyBarOnline/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MatchRepository appends settlements and final results of played games.
type MatchRepository struct {
	db *pgxpool.Pool
}

func NewMatchRepository(db *pgxpool.Pool) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) SaveSettlement(ctx context.Context, rec *domain.SettlementRecord) error {
	scored, err := json.Marshal(rec.Scored)
	if err != nil {
		return err
	}
	discarded, err := json.Marshal(rec.Discarded)
	if err != nil {
		return err
	}

	err = r.db.QueryRow(ctx,
		`INSERT INTO gate_settlements (match_id, peer_id, move_seq, scored, discarded)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		rec.MatchID, rec.PeerID, rec.MoveSeq, scored, discarded,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert settlement: %w", err)
	}
	return nil
}

// SaveResult stores the outcome once per match and peer; a repeated save
// overwrites the previous row.
func (r *MatchRepository) SaveResult(ctx context.Context, res *domain.MatchResult) error {
	scores, err := json.Marshal(res.Scores)
	if err != nil {
		return err
	}
	winners, err := json.Marshal(res.Winners)
	if err != nil {
		return err
	}

	err = r.db.QueryRow(ctx,
		`INSERT INTO match_results (match_id, peer_id, scores, winners, moves)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (match_id, peer_id)
		 DO UPDATE SET scores = EXCLUDED.scores, winners = EXCLUDED.winners, moves = EXCLUDED.moves
		 RETURNING id, created_at`,
		res.MatchID, res.PeerID, scores, winners, res.Moves,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

// Settlements lists the archived settlements of a match in move order.
func (r *MatchRepository) Settlements(ctx context.Context, matchID, peerID string) ([]*domain.SettlementRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, match_id, peer_id, move_seq, scored, discarded, created_at
		 FROM gate_settlements
		 WHERE match_id = $1 AND peer_id = $2
		 ORDER BY move_seq`,
		matchID, peerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.SettlementRecord
	for rows.Next() {
		var (
			rec                     domain.SettlementRecord
			scoredRaw, discardedRaw []byte
		)
		if err := rows.Scan(&rec.ID, &rec.MatchID, &rec.PeerID, &rec.MoveSeq, &scoredRaw, &discardedRaw, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(scoredRaw, &rec.Scored); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(discardedRaw, &rec.Discarded); err != nil {
			return nil, err
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

// RecentResults returns the latest finished matches recorded by peerID.
func (r *MatchRepository) RecentResults(ctx context.Context, peerID string, limit int) ([]*domain.MatchResult, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, match_id, peer_id, scores, winners, moves, created_at
		 FROM match_results
		 WHERE peer_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		peerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.MatchResult
	for rows.Next() {
		var (
			res                  domain.MatchResult
			scoresRaw, winnerRaw []byte
		)
		if err := rows.Scan(&res.ID, &res.MatchID, &res.PeerID, &scoresRaw, &winnerRaw, &res.Moves, &res.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(scoresRaw, &res.Scores); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(winnerRaw, &res.Winners); err != nil {
			return nil, err
		}
		out = append(out, &res)
	}
	return out, rows.Err()
}
