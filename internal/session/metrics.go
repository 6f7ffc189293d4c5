package session

import "github.com/prometheus/client_golang/prometheus"

var (
	movesApplied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "game_moves_applied_total",
			Help: "Moves applied to the local replica",
		},
		[]string{"origin"},
	)
	movesRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "game_moves_rejected_total",
			Help: "Remote moves rejected by the receiver",
		},
		[]string{"reason"},
	)
	gamesStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "games_started_total",
		Help: "Games initialized on this node",
	})
	settlements = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gate_settlements_total",
		Help: "Gate settlements applied",
	})
	updatesDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "session_updates_dropped_total",
		Help: "Updates dropped for slow subscribers",
	})
	archiveErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "archive_errors_total",
		Help: "Failed match archive writes",
	})
)

func init() {
	prometheus.MustRegister(movesApplied, movesRejected, gamesStarted, settlements, updatesDropped, archiveErrors)
}
