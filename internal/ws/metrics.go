package ws

import "github.com/prometheus/client_golang/prometheus"

var (
	FramesReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "peer_frames_received_total",
			Help: "Frames received from peers by message type",
		},
		[]string{"type"},
	)
	FramesDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "peer_frames_dropped_total",
			Help: "Frames dropped by the transport",
		},
		[]string{"reason"},
	)
	FramesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "peer_frames_sent_total",
			Help: "Frames queued to peers by message type",
		},
		[]string{"type"},
	)
	PeersConnected = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "peers_connected",
			Help: "Peer connections past the handshake",
		},
	)
)

func init() {
	prometheus.MustRegister(FramesReceived)
	prometheus.MustRegister(FramesDropped)
	prometheus.MustRegister(FramesSent)
	prometheus.MustRegister(PeersConnected)
}
