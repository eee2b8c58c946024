package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/arcadegrid/arcadegrid-backend/internal/engine/types"
	errs "github.com/arcadegrid/arcadegrid-backend/pkg/errors"
)

// SubmitScore accepts a score submission. A duplicate replay hash is a
// successful response with accepted=false, so client retries are absorbed
// rather than surfaced as failures.
func (h *Handler) SubmitScore(c *gin.Context) {
	var req types.SubmitScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("%s: %v", errs.MsgInvalidRequestBody, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": errs.MsgInvalidRequestBody})
		return
	}
	h.logger.Debugf("POST [SubmitScore] game: %s, player: %s", req.GameID, req.PlayerID)

	result, err := h.engine.SubmitScore(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, errs.ErrDuplicateSubmission) {
			h.logger.Debugf("POST [SubmitScore] Duplicate hash for game %s, absorbed", req.GameID)
			c.JSON(http.StatusOK, types.SubmitScoreResponse{
				Accepted:  false,
				Duplicate: true,
				Protected: true,
			})
			return
		}
		h.logger.Errorf("POST [SubmitScore] Failed for game %s: %v", req.GameID, err)
		h.respondError(c, err)
		return
	}

	h.logger.Debugf("POST [SubmitScore] Successful, player: %s, new_best: %t, rank: %d", req.PlayerID, result.NewBest, result.Rank)
	c.JSON(http.StatusOK, types.SubmitScoreResponse{
		Accepted:  true,
		NewBest:   result.NewBest,
		Rank:      result.Rank,
		Protected: result.Protected,
	})
}

// GetLeaderboard returns the top entries for a game, ordered by score with
// the earliest achiever winning ties.
func (h *Handler) GetLeaderboard(c *gin.Context) {
	gameID := c.Param("game_id")
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errs.MsgInvalidRequestBody})
			return
		}
		limit = parsed
	}
	h.logger.Debugf("GET [GetLeaderboard] game: %s, limit: %d", gameID, limit)

	entries, err := h.engine.GetLeaderboard(c.Request.Context(), gameID, limit)
	if err != nil {
		h.logger.Errorf("GET [GetLeaderboard] Failed for game %s: %v", gameID, err)
		h.respondError(c, err)
		return
	}

	h.logger.Debugf("GET [GetLeaderboard] Successful, game: %s, entries: %d", gameID, len(entries))
	c.JSON(http.StatusOK, gin.H{
		"game_id": gameID,
		"entries": entries,
	})
}

// GetPlayerRank returns one player's ranked entry. A player with no recorded
// best is not an error; the response carries found=false.
func (h *Handler) GetPlayerRank(c *gin.Context) {
	gameID := c.Param("game_id")
	playerID := c.Param("player_id")
	h.logger.Debugf("GET [GetPlayerRank] game: %s, player: %s", gameID, playerID)

	entry, found, err := h.engine.GetPlayerRank(c.Request.Context(), gameID, playerID)
	if err != nil {
		h.logger.Errorf("GET [GetPlayerRank] Failed for player %s: %v", playerID, err)
		h.respondError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusOK, gin.H{
			"game_id":   gameID,
			"player_id": playerID,
			"found":     false,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"game_id": gameID,
		"found":   true,
		"entry":   entry,
	})
}
