package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind is one of the twelve animals. The numeric value is the card's power.
type Kind uint8

const (
	KindSkunk Kind = iota + 1
	KindParrot
	KindKangaroo
	KindMonkey
	KindChameleon
	KindSeal
	KindZebra
	KindGiraffe
	KindSnake
	KindHippo
	KindCrocodile
	KindLion
)

// DeckSize is the number of cards in every player's deck (one per kind).
const DeckSize = 12

type kindInfo struct {
	id   string
	name string
}

// catalog is indexed by Kind.
var catalog = [...]kindInfo{
	KindSkunk:     {"skunk", "臭鼬"},
	KindParrot:    {"parrot", "鹦鹉"},
	KindKangaroo:  {"kangaroo", "袋鼠"},
	KindMonkey:    {"monkey", "猴子"},
	KindChameleon: {"chameleon", "变色龙"},
	KindSeal:      {"seal", "海豹"},
	KindZebra:     {"zebra", "斑马"},
	KindGiraffe:   {"giraffe", "长颈鹿"},
	KindSnake:     {"snake", "蛇"},
	KindHippo:     {"hippo", "河马"},
	KindCrocodile: {"crocodile", "鳄鱼"},
	KindLion:      {"lion", "狮子"},
}

// Kinds returns every kind in ascending power order.
func Kinds() []Kind {
	out := make([]Kind, 0, DeckSize)
	for k := KindSkunk; k <= KindLion; k++ {
		out = append(out, k)
	}
	return out
}

func (k Kind) Valid() bool {
	return k >= KindSkunk && k <= KindLion
}

func (k Kind) Power() int {
	return int(k)
}

// Name returns the localized display label.
func (k Kind) Name() string {
	if !k.Valid() {
		return ""
	}
	return catalog[k].name
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
	return catalog[k].id
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid card kind %d", uint8(k))
	}
	return []byte(catalog[k].id), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind resolves a wire identifier such as "kangaroo".
func ParseKind(s string) (Kind, error) {
	for k := KindSkunk; k <= KindLion; k++ {
		if catalog[k].id == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown card kind %q", s)
}

// Card is immutable once created.
type Card struct {
	UID   string `json:"uid"`
	Kind  Kind   `json:"kind"`
	Power int    `json:"power"`
	Name  string `json:"name"`
}

// NewCard builds a card of the given kind with an explicit uid.
func NewCard(uid string, k Kind) Card {
	return Card{UID: uid, Kind: k, Power: k.Power(), Name: k.Name()}
}

// NewDeck returns one freshly tagged card per kind in catalog order.
func NewDeck(deckID string) []Card {
	deck := make([]Card, 0, DeckSize)
	for _, k := range Kinds() {
		uid := deckID + "-" + k.String() + "-" + uuid.NewString()
		deck = append(deck, NewCard(uid, k))
	}
	return deck
}
