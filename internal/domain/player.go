package domain

// HandSize is the number of cards a player holds while the deck lasts.
const HandSize = 4

// Player is the public view of a seat. The list of players is fixed
// when a game is initialized.
type Player struct {
	ID         string `json:"id"`
	ColorIndex int    `json:"colorIndex"`
	Nickname   string `json:"nickname"`
	HandCount  int    `json:"handCount"`
	DeckCount  int    `json:"deckCount"`
}

// QueueEntry is a card standing at the gate together with its owner.
type QueueEntry struct {
	Card    Card   `json:"card"`
	OwnerID string `json:"ownerId"`
}
