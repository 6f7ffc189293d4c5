package game

import (
	"fmt"
	"hash/fnv"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strconv"

	"github.com/HeJian358/BeastyBarOnline/internal/domain"
	"github.com/HeJian358/BeastyBarOnline/internal/logger"
)

// DefaultNickname is used for players missing from the init nick map.
const DefaultNickname = "Unknown"

// Publisher receives every move authored by the local player after it
// has been applied locally.
type Publisher interface {
	PublishMove(m domain.Move)
}

// InitParams is the content of a GAME_INIT message.
type InitParams struct {
	Order  []string
	DeckID string
	Seed   int64
	Nicks  map[string]string
}

// Outcome describes what a single applied move did.
type Outcome struct {
	Move       domain.Move         `json:"move"`
	Removed    []domain.QueueEntry `json:"removed,omitempty"`
	Settlement *Settlement         `json:"settlement,omitempty"`
	NextTurn   string              `json:"next_turn"`
	Finished   bool                `json:"finished"`
}

// Engine is one peer's replica of the shared game plus the local
// player's private hand and deck. It is not safe for concurrent use;
// the owner must serialize every call.
type Engine struct {
	localID string
	pub     Publisher
	log     *slog.Logger

	started  bool
	finished bool
	matchID  string
	players  []domain.Player
	turn     TurnCursor
	queue    []domain.QueueEntry
	hand     []domain.Card
	deck     []domain.Card
	bar      []domain.QueueEntry
	discard  []domain.QueueEntry
	moves    int
	lastSeq  map[string]uint64

	selection Selection

	// stepHook runs after every pipeline step; tests use it to inject faults.
	stepHook func(step string)
}

func NewEngine(localID string, pub Publisher) *Engine {
	return &Engine{
		localID: localID,
		pub:     pub,
		log:     logger.With("component", "engine", "peer", localID),
		lastSeq: make(map[string]uint64),
	}
}

func (e *Engine) LocalID() string { return e.localID }
func (e *Engine) Started() bool   { return e.started }
func (e *Engine) Finished() bool  { return e.finished }
func (e *Engine) MatchID() string { return e.matchID }
func (e *Engine) Moves() int      { return e.moves }

// Init (re)initializes the whole game: fixes the player list, builds and
// shuffles the local deck, deals the opening hand and resets the queue
// and the turn cursor.
func (e *Engine) Init(p InitParams) error {
	if len(p.Order) == 0 {
		return fmt.Errorf("%w: empty player order", ErrBadInit)
	}
	players := make([]domain.Player, 0, len(p.Order))
	seen := make(map[string]bool, len(p.Order))
	for i, id := range p.Order {
		if id == "" || seen[id] {
			return fmt.Errorf("%w: bad or duplicate player id %q", ErrBadInit, id)
		}
		seen[id] = true
		nick := p.Nicks[id]
		if nick == "" {
			nick = DefaultNickname
		}
		players = append(players, domain.Player{
			ID:         id,
			ColorIndex: i,
			Nickname:   nick,
			HandCount:  domain.HandSize,
			DeckCount:  domain.DeckSize - domain.HandSize,
		})
	}

	var hand, deck []domain.Card
	if seen[e.localID] {
		deck = domain.NewDeck(p.DeckID)
		shuffle(deck, p.Seed, e.localID)
		hand = append(hand, deck[:domain.HandSize]...)
		deck = append([]domain.Card(nil), deck[domain.HandSize:]...)
	} else {
		e.log.Warn("local peer not seated, following as spectator", "order", p.Order)
	}

	e.started = true
	e.finished = false
	e.matchID = p.DeckID + "-" + strconv.FormatInt(p.Seed, 10)
	e.players = players
	e.turn = TurnCursor{Index: 0, Players: len(players)}
	e.queue = nil
	e.hand = hand
	e.deck = deck
	e.bar = nil
	e.discard = nil
	e.moves = 0
	e.lastSeq = make(map[string]uint64, len(players))
	e.selection = Selection{}

	e.log.Info("game initialized", "match", e.matchID, "players", len(players), "hand", len(hand), "deck", len(deck))
	return nil
}

// shuffle permutes the private deck. Decks are never shared so the peer
// id is mixed into the seed to give each player a different order.
func shuffle(deck []domain.Card, seed int64, peerID string) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(peerID))
	r := rand.New(rand.NewPCG(uint64(seed), h.Sum64()))
	r.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
}

// CurrentPlayerID returns the id of the turn holder, or "" before init.
func (e *Engine) CurrentPlayerID() string {
	if len(e.players) == 0 {
		return ""
	}
	return e.players[e.turn.Index].ID
}

func (e *Engine) IsMyTurn() bool {
	return e.started && e.CurrentPlayerID() == e.localID
}

func (e *Engine) canAct() error {
	switch {
	case !e.started:
		return ErrNotStarted
	case e.finished:
		return ErrGameOver
	case !e.IsMyTurn():
		return ErrNotYourTurn
	}
	return nil
}

func (e *Engine) handCard(uid string) (domain.Card, bool) {
	for _, c := range e.hand {
		if c.UID == uid {
			return c, true
		}
	}
	return domain.Card{}, false
}

func (e *Engine) queued(uid string) bool {
	for _, q := range e.queue {
		if q.Card.UID == uid {
			return true
		}
	}
	return false
}

// AuthorMove plays a card from the local hand: the move is applied
// locally first and published only if that succeeded.
func (e *Engine) AuthorMove(cardUID string, extra domain.MoveExtra) (Outcome, error) {
	if err := e.canAct(); err != nil {
		e.log.Info("move refused", "card", cardUID, "reason", err)
		return Outcome{}, err
	}
	card, ok := e.handCard(cardUID)
	if !ok {
		e.log.Info("move refused", "card", cardUID, "reason", ErrCardNotHeld)
		return Outcome{}, ErrCardNotHeld
	}

	switch card.Kind {
	case domain.KindParrot:
		extra.Jump = 0
		if extra.TargetUID != "" && !e.queued(extra.TargetUID) {
			return Outcome{}, ErrUnknownTarget
		}
	case domain.KindKangaroo:
		extra.TargetUID = ""
		if !domain.ValidJump(extra.Jump) {
			return Outcome{}, ErrInvalidJump
		}
	default:
		extra = domain.MoveExtra{}
	}

	m := domain.Move{
		CardUID:  card.UID,
		CardKind: card.Kind,
		Power:    card.Power,
		AuthorID: e.localID,
		Seq:      e.lastSeq[e.localID] + 1,
		Extra:    extra,
	}

	out, err := e.apply(m)
	if err != nil {
		e.log.Error("local move failed", "card", card.UID, "error", err)
		return Outcome{}, err
	}
	if e.pub != nil {
		e.pub.PublishMove(m)
	}
	return out, nil
}

// OnRemoteMove is the receive path. The author's own echo is discarded
// since it was applied when authored; anything that does not come from
// the current turn holder in sequence is rejected.
func (e *Engine) OnRemoteMove(m domain.Move) (Outcome, error) {
	if m.AuthorID == e.localID {
		return Outcome{}, ErrSelfEcho
	}
	if !e.started {
		return Outcome{}, ErrNotStarted
	}
	if e.finished {
		return Outcome{}, ErrGameOver
	}
	if err := m.Validate(); err != nil {
		return Outcome{}, err
	}
	if holder := e.CurrentPlayerID(); m.AuthorID != holder {
		return Outcome{}, fmt.Errorf("%w: author %s, turn holder %s", ErrOutOfTurn, m.AuthorID, holder)
	}
	if last := e.lastSeq[m.AuthorID]; m.Seq <= last {
		return Outcome{}, fmt.Errorf("%w: seq %d, last %d", ErrStaleMove, m.Seq, last)
	}
	return e.apply(m)
}

// transition is the staged next state built by apply before commit.
type transition struct {
	players []domain.Player
	turn    TurnCursor
	queue   []domain.QueueEntry
	hand    []domain.Card
	deck    []domain.Card
	bar     []domain.QueueEntry
	discard []domain.QueueEntry
}

func (e *Engine) stage() *transition {
	return &transition{
		players: slices.Clone(e.players),
		turn:    e.turn,
		queue:   slices.Clone(e.queue),
		hand:    slices.Clone(e.hand),
		deck:    slices.Clone(e.deck),
		bar:     slices.Clone(e.bar),
		discard: slices.Clone(e.discard),
	}
}

func (t *transition) player(id string) *domain.Player {
	for i := range t.players {
		if t.players[i].ID == id {
			return &t.players[i]
		}
	}
	return nil
}

// playFromHand removes the card from the private hand and redraws while
// the deck lasts.
func (t *transition) playFromHand(localID, uid string) error {
	idx := slices.IndexFunc(t.hand, func(c domain.Card) bool { return c.UID == uid })
	if idx < 0 {
		return ErrCardNotHeld
	}
	t.hand = slices.Delete(t.hand, idx, idx+1)
	if len(t.deck) > 0 && len(t.hand) < domain.HandSize {
		last := len(t.deck) - 1
		t.hand = append(t.hand, t.deck[last])
		t.deck = t.deck[:last]
	}
	if p := t.player(localID); p != nil {
		p.HandCount = len(t.hand)
		p.DeckCount = len(t.deck)
	}
	return nil
}

// mirrorRemotePlay updates the public counters of another player the same
// way the author updated its private hand.
func (t *transition) mirrorRemotePlay(authorID string) error {
	p := t.player(authorID)
	if p == nil {
		return fmt.Errorf("%w: unknown author %s", ErrOutOfTurn, authorID)
	}
	p.HandCount = max(0, p.HandCount-1)
	if p.DeckCount > 0 && p.HandCount < domain.HandSize {
		p.DeckCount--
		p.HandCount++
	}
	return nil
}

// apply runs the five step pipeline on a staged copy and commits it only
// when every step succeeded.
func (e *Engine) apply(m domain.Move) (out Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: card %s by %s: %v", ErrApplyFault, m.CardUID, m.AuthorID, r)
		}
	}()

	t := e.stage()
	card := m.Card()

	if m.AuthorID == e.localID {
		err = t.playFromHand(e.localID, card.UID)
	} else {
		err = t.mirrorRemotePlay(m.AuthorID)
	}
	if err != nil {
		return Outcome{}, err
	}
	e.step("hand")

	entry := domain.QueueEntry{Card: card, OwnerID: m.AuthorID}
	t.queue = append(t.queue, entry)
	e.step("enqueue")

	t.queue, out.Removed = ResolveSkill(t.queue, entry, m.Extra)
	t.discard = append(t.discard, out.Removed...)
	e.step("skill")

	t.queue, out.Settlement = Settle(t.queue)
	if out.Settlement != nil {
		t.bar = append(t.bar, out.Settlement.Scored...)
		t.discard = append(t.discard, out.Settlement.Discarded...)
	}
	e.step("settle")

	t.turn.Advance()
	e.step("turn")

	e.commit(t, m)

	out.Move = m
	out.NextTurn = e.CurrentPlayerID()
	out.Finished = e.finished
	e.log.Debug("move applied",
		"author", m.AuthorID, "card", m.CardKind, "seq", m.Seq,
		"queue", len(e.queue), "removed", len(out.Removed),
		"settled", out.Settlement != nil, "next", out.NextTurn)
	return out, nil
}

func (e *Engine) step(name string) {
	if e.stepHook != nil {
		e.stepHook(name)
	}
}

func (e *Engine) commit(t *transition, m domain.Move) {
	e.players = t.players
	e.turn = t.turn
	e.queue = t.queue
	e.hand = t.hand
	e.deck = t.deck
	e.bar = t.bar
	e.discard = t.discard
	e.lastSeq[m.AuthorID] = m.Seq
	e.moves++

	done := true
	for _, p := range e.players {
		if p.HandCount > 0 {
			done = false
			break
		}
	}
	e.finished = done
}
