package ws

// Wire message classes.
const (
	// handshake, consumed by the hub
	MsgHello = "HELLO"

	// peer - peer
	MsgPlayerReady = "PLAYER_READY"
	MsgSyncStatus  = "SYNC_STATUS"
	MsgGameInit    = "GAME_INIT"
	MsgGameMove    = "GAME_MOVE" // payload is domain.Move

	// synthesized locally on connection open / close
	MsgUserJoined = "SYS_USER_JOINED"
	MsgUserLeft   = "SYS_USER_LEFT"
)

// floodable lists the classes subject to duplicate suppression.
var floodable = map[string]bool{
	MsgUserJoined: true,
	MsgSyncStatus: true,
	MsgGameInit:   true,
}

// reserved classes never come from the wire once a peer is open: HELLO
// is consumed by the handshake and the SYS_* events are synthesized by
// the hub itself.
var reserved = map[string]bool{
	MsgHello:      true,
	MsgUserJoined: true,
	MsgUserLeft:   true,
}

var wireTypes = map[string]bool{
	MsgPlayerReady: true,
	MsgSyncStatus:  true,
	MsgGameInit:    true,
	MsgGameMove:    true,
}

// typeLabel bounds the metric label set to the known classes.
func typeLabel(typ string) string {
	if wireTypes[typ] {
		return typ
	}
	return "unknown"
}
