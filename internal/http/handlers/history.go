package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// RecentResults lists finished matches recorded by this node.
func (h *Handler) RecentResults(c *gin.Context) {
	if h.History == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "archive disabled"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	res, err := h.History.RecentResults(c.Request.Context(), h.Node.LocalID(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": res})
}

func (h *Handler) MatchSettlements(c *gin.Context) {
	if h.History == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "archive disabled"})
		return
	}
	recs, err := h.History.Settlements(c.Request.Context(), c.Param("match"), h.Node.LocalID())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settlements": recs})
}
