// peer_smoke joins a running node as a bare peer, checks the handshake
// and the lobby exchange, then leaves.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/HeJian358/BeastyBarOnline/internal/ws"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

func main() {
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	addr := flag.String("addr", fmt.Sprintf("ws://127.0.0.1:%s/ws", port), "peer endpoint of the node")
	id := flag.String("id", "smoke-"+uuid.NewString()[:8], "peer id announced in HELLO")
	nick := flag.String("nick", "smoke", "nickname sent in SYNC_STATUS")
	flag.Parse()

	conn, _, err := websocket.DefaultDialer.Dial(*addr, nil)
	if err != nil {
		log.Fatalf("dial %s: %v", *addr, err)
	}
	defer conn.Close()

	send := func(env ws.Envelope) {
		b, err := env.Bytes()
		if err != nil {
			log.Fatalf("encode %s: %v", env.Type, err)
		}
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Fatalf("write %s: %v", env.Type, err)
		}
	}
	read := func() ws.Envelope {
		conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			log.Fatalf("read: %v", err)
		}
		env, err := ws.Decode(msg)
		if err != nil {
			log.Fatalf("decode %q: %v", msg, err)
		}
		return env
	}

	send(ws.MustEncode(ws.MsgHello, ws.HelloPayload{PeerID: *id}))

	hello := read()
	if hello.Type != ws.MsgHello {
		log.Fatalf("expected HELLO, got %s", hello.Type)
	}
	remote, err := ws.DecodePayload[ws.HelloPayload](hello)
	if err != nil {
		log.Fatalf("hello payload: %v", err)
	}
	log.Printf("connected to node %s", remote.PeerID)

	// the node answers our join with its status
	status := read()
	if status.Type != ws.MsgSyncStatus {
		log.Fatalf("expected SYNC_STATUS, got %s", status.Type)
	}
	st, err := ws.DecodePayload[ws.StatusPayload](status)
	if err != nil {
		log.Fatalf("status payload: %v", err)
	}
	log.Printf("node status: nick=%q ready=%v host=%v", st.Nick, st.IsReady, st.IsHost)

	send(ws.MustEncode(ws.MsgSyncStatus, ws.StatusPayload{ID: *id, Nick: *nick}))
	send(ws.MustEncode(ws.MsgPlayerReady, ws.ReadyPayload{ID: *id, IsReady: true}))
	log.Printf("announced %s as ready", *id)

	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	log.Println("smoke test finished")
}
