package game

import "testing"

func TestTurnCursorCycles(t *testing.T) {
	for players := 1; players <= 5; players++ {
		c := TurnCursor{Index: 0, Players: players}
		for i := 0; i < players; i++ {
			c.Advance()
		}
		if c.Index != 0 {
			t.Fatalf("players=%d: cursor at %d after a full round", players, c.Index)
		}
	}
}

func TestTurnCursorWithoutPlayers(t *testing.T) {
	c := TurnCursor{}
	c.Advance()
	if c.Index != 0 {
		t.Fatalf("cursor moved without players: %d", c.Index)
	}
}
