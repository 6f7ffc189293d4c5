package handlers

import (
	"net/http"

	"github.com/HeJian358/BeastyBarOnline/internal/logger"

	"github.com/gin-gonic/gin"
)

func (h *Handler) State(c *gin.Context) {
	snap, err := h.Node.Snapshot(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) Lobby(c *gin.Context) {
	lobby, err := h.Node.Lobby(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"peers": lobby})
}

func (h *Handler) Ready(c *gin.Context) {
	ready, err := h.Node.ToggleReady(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ready": ready})
}

// Start deals a game. An unready host is readied first and gets
// started=false.
func (h *Handler) Start(c *gin.Context) {
	started, err := h.Node.Start(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"started": started})
}

func (h *Handler) Connect(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address required"})
		return
	}
	if err := h.Node.Connect(c.Request.Context(), req.Address); err != nil {
		logger.FromContext(c.Request.Context()).Warn("connect failed", "address", req.Address, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"connected": req.Address})
}

func (h *Handler) Select(c *gin.Context) {
	var req struct {
		CardUID string `json:"card_uid" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "card_uid required"})
		return
	}
	in, err := h.Node.Select(c.Request.Context(), req.CardUID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, in)
}

func (h *Handler) Target(c *gin.Context) {
	var req struct {
		TargetUID string `json:"target_uid" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_uid required"})
		return
	}
	out, err := h.Node.ConfirmTarget(c.Request.Context(), req.TargetUID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) Jump(c *gin.Context) {
	var req struct {
		Jump int `json:"jump" binding:"required,min=1,max=2"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "jump must be 1 or 2"})
		return
	}
	out, err := h.Node.ConfirmJump(c.Request.Context(), req.Jump)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) Cancel(c *gin.Context) {
	cancelled, err := h.Node.Cancel(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": cancelled})
}
