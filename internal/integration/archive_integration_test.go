package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/HeJian358/BeastyBarOnline/internal/domain"
	"github.com/HeJian358/BeastyBarOnline/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

func TestMatchRepository_SaveAndRead(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	defer db.Close()

	applyMigrations(t, db)

	repo := repository.NewMatchRepository(db)
	ctx := context.Background()
	matchID := "set1-" + uuid.NewString()

	lion := domain.NewCard("set1-lion-x", domain.KindLion)
	skunk := domain.NewCard("set1-skunk-x", domain.KindSkunk)
	rec := &domain.SettlementRecord{
		MatchID:   matchID,
		PeerID:    "a",
		MoveSeq:   5,
		Scored:    []domain.QueueEntry{{Card: lion, OwnerID: "a"}},
		Discarded: []domain.QueueEntry{{Card: skunk, OwnerID: "b"}},
	}
	if err := repo.SaveSettlement(ctx, rec); err != nil {
		t.Fatalf("save settlement: %v", err)
	}
	if rec.ID == 0 || rec.CreatedAt.IsZero() {
		t.Fatalf("id and created_at should be filled: %+v", rec)
	}

	recs, err := repo.Settlements(ctx, matchID, "a")
	if err != nil {
		t.Fatalf("settlements: %v", err)
	}
	if len(recs) != 1 || recs[0].Scored[0].Card.Kind != domain.KindLion || recs[0].Discarded[0].OwnerID != "b" {
		t.Fatalf("unexpected settlements %+v", recs)
	}

	res := &domain.MatchResult{
		MatchID: matchID,
		PeerID:  "a",
		Scores:  map[string]int{"a": 3, "b": 1},
		Winners: []string{"a"},
		Moves:   24,
	}
	if err := repo.SaveResult(ctx, res); err != nil {
		t.Fatalf("save result: %v", err)
	}
	// saving twice keeps one row per match and peer
	res.Moves = 25
	if err := repo.SaveResult(ctx, res); err != nil {
		t.Fatalf("save result again: %v", err)
	}

	got, err := repo.RecentResults(ctx, "a", 100)
	if err != nil {
		t.Fatalf("recent results: %v", err)
	}
	found := 0
	for _, r := range got {
		if r.MatchID == matchID {
			found++
			if r.Moves != 25 || r.Scores["a"] != 3 || len(r.Winners) != 1 {
				t.Fatalf("unexpected result %+v", r)
			}
		}
	}
	if found != 1 {
		t.Fatalf("expected one result row, got %d", found)
	}
}
