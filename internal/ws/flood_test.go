package ws

import (
	"fmt"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestGuard(window time.Duration, limit int) (*FloodGuard, *fakeClock) {
	g := NewFloodGuard(window, limit)
	clk := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	g.now = clk.now
	return g, clk
}

func TestFloodGuardSuppressesRepeatsInsideWindow(t *testing.T) {
	g, clk := newTestGuard(time.Second, 100)
	env := MustEncode(MsgSyncStatus, StatusPayload{ID: "a", Nick: "Ann"})

	if g.IsDuplicate(env) {
		t.Fatal("first frame must pass")
	}
	clk.advance(500 * time.Millisecond)
	if !g.IsDuplicate(env) {
		t.Fatal("repeat inside window must be suppressed")
	}
	clk.advance(600 * time.Millisecond)
	if g.IsDuplicate(env) {
		t.Fatal("repeat after the window must pass")
	}
}

func TestFloodGuardIgnoresOtherTypes(t *testing.T) {
	g, _ := newTestGuard(time.Second, 100)
	env := MustEncode(MsgPlayerReady, ReadyPayload{ID: "a", IsReady: true})
	for i := 0; i < 3; i++ {
		if g.IsDuplicate(env) {
			t.Fatalf("PLAYER_READY must never be suppressed (iteration %d)", i)
		}
	}
	if g.Len() != 0 {
		t.Fatalf("non floodable frames must not be remembered, len=%d", g.Len())
	}
}

func TestFloodGuardDistinguishesPayloads(t *testing.T) {
	g, _ := newTestGuard(time.Second, 100)
	a := MustEncode(MsgUserJoined, PeerPayload{PeerID: "a"})
	b := MustEncode(MsgUserJoined, PeerPayload{PeerID: "b"})
	if g.IsDuplicate(a) || g.IsDuplicate(b) {
		t.Fatal("different payloads are different fingerprints")
	}
	if !g.IsDuplicate(a) {
		t.Fatal("a repeated immediately must be suppressed")
	}
}

func TestFloodGuardClearsTableAboveLimit(t *testing.T) {
	g, _ := newTestGuard(time.Second, 3)
	first := MustEncode(MsgGameInit, InitPayload{DeckID: "d0"})
	g.IsDuplicate(first)
	for i := 1; i <= 3; i++ {
		g.IsDuplicate(MustEncode(MsgGameInit, InitPayload{DeckID: fmt.Sprintf("d%d", i)}))
	}
	if g.Len() != 0 {
		t.Fatalf("table should be cleared once it exceeds the limit, len=%d", g.Len())
	}
	// the cleared fingerprint is accepted again even inside the window
	if g.IsDuplicate(first) {
		t.Fatal("fingerprint forgotten by the clear must pass")
	}
}

func TestCodecRoundTrip(t *testing.T) {
	env := MustEncode(MsgGameInit, InitPayload{
		Order:    []string{"a", "b"},
		DeckID:   "set1",
		Seed:     42,
		NicksMap: map[string]string{"a": "Ann"},
	})
	b, err := env.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	p, err := DecodePayload[InitPayload](got)
	if err != nil {
		t.Fatal(err)
	}
	if got.Type != MsgGameInit || p.Seed != 42 || len(p.Order) != 2 || p.NicksMap["a"] != "Ann" {
		t.Fatalf("unexpected decode: %+v %+v", got, p)
	}

	for _, raw := range []string{"", "{", `{"payload":{}}`} {
		if _, err := Decode([]byte(raw)); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
