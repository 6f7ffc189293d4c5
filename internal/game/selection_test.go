package game

import (
	"errors"
	"testing"

	"github.com/HeJian358/BeastyBarOnline/internal/domain"
)

func TestSelectPlainCardAuthorsAtOnce(t *testing.T) {
	tb := newTable(t, "a", "b")
	a := tb.engines["a"]
	a.hand[0] = domain.NewCard("seal", domain.KindSeal)

	it, err := a.Select("seal")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if it.Outcome == nil || it.Pending != nil {
		t.Fatalf("expected an authored move, got %+v", it)
	}
	if len(tb.pubs["a"].moves) != 1 {
		t.Fatalf("move not published")
	}
}

func TestParrotAwaitsTarget(t *testing.T) {
	tb := newTable(t, "a", "b")
	a, b := tb.engines["a"], tb.engines["b"]
	a.hand[0] = domain.NewCard("lion", domain.KindLion)
	tb.playTurn(t)

	b.hand[0] = domain.NewCard("parrot", domain.KindParrot)
	it, err := b.Select("parrot")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if it.Pending == nil || it.Pending.State != "awaiting_target" {
		t.Fatalf("expected pending target, got %+v", it)
	}
	if len(tb.pubs["b"].moves) != 0 {
		t.Fatalf("pending selection was published")
	}

	if _, err := b.ConfirmJump(1); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("jump on a parrot: got %v", err)
	}
	if _, err := b.ConfirmTarget("ghost"); !errors.Is(err, ErrUnknownTarget) {
		t.Fatalf("ghost target: got %v", err)
	}
	if b.Snapshot().Pending == nil {
		t.Fatalf("unknown target cleared the selection")
	}

	out, err := b.ConfirmTarget("lion")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if len(out.Removed) != 1 || out.Removed[0].Card.UID != "lion" {
		t.Fatalf("removed = %v", uids(out.Removed))
	}
	if b.Snapshot().Pending != nil {
		t.Fatalf("selection still pending after the move")
	}
	if _, err := a.OnRemoteMove(tb.pubs["b"].last(t)); err != nil {
		t.Fatalf("replicate: %v", err)
	}
	if got := uids(a.queue); len(got) != 1 || got[0] != "parrot" {
		t.Fatalf("a queue = %v", got)
	}
}

func TestParrotOnEmptyQueuePlaysDirectly(t *testing.T) {
	tb := newTable(t, "a", "b")
	a := tb.engines["a"]
	a.hand[0] = domain.NewCard("parrot", domain.KindParrot)

	it, err := a.Select("parrot")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if it.Outcome == nil {
		t.Fatalf("parrot on empty queue should play at once, got %+v", it)
	}
}

func TestKangarooAwaitsJump(t *testing.T) {
	tb := newTable(t, "a", "b")
	a := tb.engines["a"]
	a.hand[0] = domain.NewCard("kanga", domain.KindKangaroo)

	it, err := a.Select("kanga")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if it.Pending == nil || it.Pending.State != "awaiting_parameter" {
		t.Fatalf("expected pending jump, got %+v", it)
	}
	if _, err := a.ConfirmJump(0); !errors.Is(err, ErrInvalidJump) {
		t.Fatalf("jump 0: got %v", err)
	}
	out, err := a.ConfirmJump(2)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if out.Move.Extra.Jump != 2 {
		t.Fatalf("jump = %d", out.Move.Extra.Jump)
	}
}

func TestReselectCancels(t *testing.T) {
	tb := newTable(t, "a", "b")
	a := tb.engines["a"]
	a.hand[0] = domain.NewCard("kanga", domain.KindKangaroo)

	if _, err := a.Select("kanga"); err != nil {
		t.Fatalf("select: %v", err)
	}
	it, err := a.Select("kanga")
	if err != nil {
		t.Fatalf("reselect: %v", err)
	}
	if !it.Cancelled || a.Snapshot().Pending != nil {
		t.Fatalf("reselect did not cancel: %+v", it)
	}
	if a.Moves() != 0 || len(tb.pubs["a"].moves) != 0 {
		t.Fatalf("cancel authored a move")
	}
	if a.CancelSelection() {
		t.Fatalf("nothing should be pending")
	}
}

func TestSelectOutOfTurn(t *testing.T) {
	tb := newTable(t, "a", "b")
	b := tb.engines["b"]
	if _, err := b.Select(b.hand[0].UID); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("got %v; want ErrNotYourTurn", err)
	}
}
