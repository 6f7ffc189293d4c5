package game

// TurnCursor points at the single player allowed to author the next move.
type TurnCursor struct {
	Index   int
	Players int
}

// Advance moves to the next seat, wrapping around.
func (t *TurnCursor) Advance() {
	if t.Players <= 0 {
		return
	}
	t.Index = (t.Index + 1) % t.Players
}
