package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/HeJian358/BeastyBarOnline/internal/domain"
	"github.com/HeJian358/BeastyBarOnline/internal/game"
	"github.com/HeJian358/BeastyBarOnline/internal/logger"
	"github.com/HeJian358/BeastyBarOnline/internal/session"

	"github.com/gin-gonic/gin"
)

// Node is the local game node driven by the control API.
type Node interface {
	LocalID() string
	ToggleReady(ctx context.Context) (bool, error)
	Start(ctx context.Context) (bool, error)
	Connect(ctx context.Context, addr string) error
	Select(ctx context.Context, cardUID string) (game.Interaction, error)
	ConfirmTarget(ctx context.Context, targetUID string) (game.Outcome, error)
	ConfirmJump(ctx context.Context, jump int) (game.Outcome, error)
	Cancel(ctx context.Context) (bool, error)
	Snapshot(ctx context.Context) (game.Snapshot, error)
	Lobby(ctx context.Context) ([]session.PeerStatus, error)
	Subscribe() (<-chan session.Update, func())
}

// History reads the match archive.
type History interface {
	RecentResults(ctx context.Context, peerID string, limit int) ([]*domain.MatchResult, error)
	Settlements(ctx context.Context, matchID, peerID string) ([]*domain.SettlementRecord, error)
}

type Handler struct {
	Node    Node
	History History // nil when the archive is disabled
}

func NewHandler(node Node, history History) *Handler {
	return &Handler{Node: node, History: history}
}

// respondError maps session and rule errors to status codes.
func respondError(c *gin.Context, err error) {
	switch {
	case game.IsRuleViolation(err), errors.Is(err, session.ErrNotHost):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrClosed),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "node unavailable"})
	case errors.Is(err, game.ErrApplyFault):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "move could not be applied"})
	default:
		logger.FromContext(c.Request.Context()).Error("request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
