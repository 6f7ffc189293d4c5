package session

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/HeJian358/BeastyBarOnline/internal/domain"
	"github.com/HeJian358/BeastyBarOnline/internal/game"
	"github.com/HeJian358/BeastyBarOnline/internal/logger"
	"github.com/HeJian358/BeastyBarOnline/internal/ws"
)

var (
	ErrNotHost = errors.New("only the host can start the game")
	ErrClosed  = errors.New("session closed")
)

const (
	defaultNick      = "Player"
	defaultDeckID    = "set1"
	archiveTimeout   = 5 * time.Second
	subscriberBuffer = 16
)

// Transport is the replication layer seen by the session.
type Transport interface {
	LocalID() string
	Broadcast(env ws.Envelope) int
	SendTo(peerID string, env ws.Envelope) error
	PeerIDs() []string
	Dial(ctx context.Context, addr string) error
}

// Archive stores settlements and results of finished games.
type Archive interface {
	SaveSettlement(ctx context.Context, rec *domain.SettlementRecord) error
	SaveResult(ctx context.Context, res *domain.MatchResult) error
}

type Options struct {
	Nickname string
	Host     bool
	DeckID   string
	Archive  Archive          // optional
	Now      func() time.Time // seeds GAME_INIT
}

// PeerStatus is one lobby row.
type PeerStatus struct {
	ID      string `json:"id"`
	Nick    string `json:"nick"`
	IsReady bool   `json:"isReady"`
	IsHost  bool   `json:"isHost"`
	Self    bool   `json:"self,omitempty"`
}

type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Update is pushed to subscribers after every state change.
type Update struct {
	Snapshot game.Snapshot `json:"snapshot"`
	Lobby    []PeerStatus  `json:"lobby"`
	Notice   *Notice       `json:"notice,omitempty"`
}

// Session owns the engine and the lobby of one node. Every mutation runs
// on the goroutine executing Run.
type Session struct {
	Inbox chan any

	t       Transport
	engine  *game.Engine
	archive Archive
	now     func() time.Time
	log     *slog.Logger

	nick   string
	deckID string
	host   bool
	ready  bool
	lobby  map[string]*PeerStatus

	subMu  sync.Mutex
	subs   map[chan Update]struct{}
	closed bool

	done    chan struct{}
	pending sync.WaitGroup
}

func New(t Transport, opts Options) *Session {
	if opts.Nickname == "" {
		opts.Nickname = defaultNick
	}
	if opts.DeckID == "" {
		opts.DeckID = defaultDeckID
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Session{
		Inbox:   make(chan any, 256),
		t:       t,
		archive: opts.Archive,
		now:     opts.Now,
		log:     logger.With("component", "session", "peer", t.LocalID()),
		nick:    opts.Nickname,
		deckID:  opts.DeckID,
		host:    opts.Host,
		lobby:   make(map[string]*PeerStatus),
		subs:    make(map[chan Update]struct{}),
		done:    make(chan struct{}),
	}
	s.engine = game.NewEngine(t.LocalID(), s)
	return s
}

func (s *Session) LocalID() string { return s.t.LocalID() }

// Run processes the inbox until ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	s.log.Info("session started", "nick", s.nick, "host", s.host)
	defer func() {
		close(s.done)
		s.pending.Wait()
		s.closeSubscribers()
		s.log.Info("session stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-s.Inbox:
			s.handle(msg)
		}
	}
}

func (s *Session) handle(msg any) {
	switch m := msg.(type) {
	case inbound:
		s.handleFrame(m.From, m.Env)
	case command:
		m.Run()
	}
}

// Deliver is the transport handler. It blocks until the loop accepts the
// frame so frames of one connection keep their order.
func (s *Session) Deliver(from string, env ws.Envelope) {
	select {
	case s.Inbox <- inbound{From: from, Env: env}:
	case <-s.done:
	}
}

// call runs fn on the loop and waits for its result.
func call[T any](ctx context.Context, s *Session, fn func() (T, error)) (T, error) {
	var zero T
	reply := make(chan result[T], 1)
	cmd := command{Run: func() {
		v, err := fn()
		reply <- result[T]{val: v, err: err}
	}}

	select {
	case s.Inbox <- cmd:
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-s.done:
		return zero, ErrClosed
	}
	select {
	case r := <-reply:
		return r.val, r.err
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-s.done:
		return zero, ErrClosed
	}
}

// PublishMove broadcasts a move the engine has just applied locally.
func (s *Session) PublishMove(m domain.Move) {
	env, err := ws.Encode(ws.MsgGameMove, m)
	if err != nil {
		s.log.Error("encode move", "error", err)
		return
	}
	n := s.t.Broadcast(env)
	s.log.Debug("move published", "card", m.CardKind, "seq", m.Seq, "peers", n)
}

// Subscribe registers for updates. A subscriber that falls behind loses
// updates; it never blocks the session.
func (s *Session) Subscribe() (<-chan Update, func()) {
	ch := make(chan Update, subscriberBuffer)
	s.subMu.Lock()
	if s.closed {
		close(ch)
	} else {
		s.subs[ch] = struct{}{}
	}
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
	}
	return ch, cancel
}

func (s *Session) closeSubscribers() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.closed = true
	for ch := range s.subs {
		close(ch)
	}
	clear(s.subs)
}

func (s *Session) notify(n *Notice) {
	u := Update{Snapshot: s.engine.Snapshot(), Lobby: s.lobbyView(), Notice: n}

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- u:
		default:
			updatesDropped.Inc()
		}
	}
}

func info(msg string) *Notice { return &Notice{Level: "info", Message: msg} }
func warn(msg string) *Notice { return &Notice{Level: "warn", Message: msg} }

// lobbyView lists this node first, then peers by id.
func (s *Session) lobbyView() []PeerStatus {
	out := make([]PeerStatus, 0, len(s.lobby)+1)
	out = append(out, PeerStatus{
		ID:      s.t.LocalID(),
		Nick:    s.nick,
		IsReady: s.ready,
		IsHost:  s.host,
		Self:    true,
	})
	ids := make([]string, 0, len(s.lobby))
	for id := range s.lobby {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		out = append(out, *s.lobby[id])
	}
	return out
}

func (s *Session) selfStatus() ws.StatusPayload {
	return ws.StatusPayload{ID: s.t.LocalID(), Nick: s.nick, IsReady: s.ready, IsHost: s.host}
}

func (s *Session) peer(id string) *PeerStatus {
	p, ok := s.lobby[id]
	if !ok {
		p = &PeerStatus{ID: id}
		s.lobby[id] = p
	}
	return p
}

// spawn runs fn outside the loop; Run waits for it before returning.
func (s *Session) spawn(fn func()) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		fn()
	}()
}
