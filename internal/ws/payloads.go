package ws

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Envelope is the frame exchanged between peers.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type HelloPayload struct {
	PeerID string `json:"peerId"`
}

type PeerPayload struct {
	PeerID string `json:"peerId"`
}

type ReadyPayload struct {
	ID      string `json:"id"`
	IsReady bool   `json:"isReady"`
}

type StatusPayload struct {
	ID      string `json:"id"`
	Nick    string `json:"nick"`
	IsReady bool   `json:"isReady"`
	IsHost  bool   `json:"isHost"`
}

type InitPayload struct {
	Order    []string          `json:"order"`
	DeckID   string            `json:"deckId"`
	Seed     int64             `json:"seed"`
	NicksMap map[string]string `json:"nicksMap"`
}

// Encode wraps payload into an envelope of type t.
func Encode(t string, payload any) (Envelope, error) {
	if t == "" {
		return Envelope{}, errors.New("envelope type is empty")
	}
	if payload == nil {
		return Envelope{}, fmt.Errorf("nil payload for %s", t)
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s: %w", t, err)
	}
	return Envelope{Type: t, Payload: b}, nil
}

// MustEncode is Encode for payloads that are known to marshal.
func MustEncode(t string, payload any) Envelope {
	env, err := Encode(t, payload)
	if err != nil {
		panic(err)
	}
	return env
}

func (e Envelope) Bytes() ([]byte, error) {
	return json.Marshal(e)
}

func Decode(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, errors.New("empty frame")
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, err
	}
	if e.Type == "" {
		return Envelope{}, errors.New("frame without type")
	}
	return e, nil
}

// DecodePayload unmarshals the payload of env into T.
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.Payload) == 0 {
		return out, fmt.Errorf("empty payload for type %q", env.Type)
	}
	err := json.Unmarshal(env.Payload, &out)
	return out, err
}
