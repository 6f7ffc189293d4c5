package session

import "github.com/HeJian358/BeastyBarOnline/internal/ws"

// inbound is a frame handed over by the transport.
type inbound struct {
	From string
	Env  ws.Envelope
}

// command runs a local action on the loop goroutine.
type command struct {
	Run func()
}

type result[T any] struct {
	val T
	err error
}
