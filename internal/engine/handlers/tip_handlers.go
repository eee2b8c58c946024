package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arcadegrid/arcadegrid-backend/internal/engine/types"
	errs "github.com/arcadegrid/arcadegrid-backend/pkg/errors"
)

// SubmitTip records a tip idempotently by its transaction hash. A repeated
// txId returns the canonical stored event with created=false.
func (h *Handler) SubmitTip(c *gin.Context) {
	var req types.SubmitTipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("%s: %v", errs.MsgInvalidRequestBody, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": errs.MsgInvalidRequestBody})
		return
	}
	h.logger.Debugf("POST [SubmitTip] tx: %s, post: %s", req.TxID, req.PostID)

	result, err := h.engine.SubmitTip(c.Request.Context(), req)
	if err != nil {
		h.logger.Errorf("POST [SubmitTip] Failed for tx %s: %v", req.TxID, err)
		h.respondError(c, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	h.logger.Debugf("POST [SubmitTip] Successful, tx: %s, created: %t", req.TxID, result.Created)
	c.JSON(status, gin.H{
		"created": result.Created,
		"tip":     result.Event,
	})
}

// ConfirmTip applies an on-chain outcome to a pending tip. Transitions out
// of a terminal status are rejected with a conflict.
func (h *Handler) ConfirmTip(c *gin.Context) {
	txID := c.Param("tx_id")

	var req types.ConfirmTipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("%s: %v", errs.MsgInvalidRequestBody, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": errs.MsgInvalidRequestBody})
		return
	}
	h.logger.Debugf("PUT [ConfirmTip] tx: %s, status: %s", txID, req.Status)

	ev, err := h.engine.ConfirmTip(c.Request.Context(), txID, req.Status)
	if err != nil {
		h.logger.Errorf("PUT [ConfirmTip] Failed for tx %s: %v", txID, err)
		h.respondError(c, err)
		return
	}

	h.logger.Debugf("PUT [ConfirmTip] Successful, tx: %s -> %s", txID, ev.Status)
	c.JSON(http.StatusOK, gin.H{"tip": ev})
}

// GetPostTips returns a post's tip list with its confirmed-total aggregate.
// Failed tips stay listed but never count toward the total.
func (h *Handler) GetPostTips(c *gin.Context) {
	postID := c.Param("post_id")
	h.logger.Debugf("GET [GetPostTips] post: %s", postID)

	agg, err := h.engine.GetPostAggregate(c.Request.Context(), postID)
	if err != nil {
		h.logger.Errorf("GET [GetPostTips] Failed for post %s: %v", postID, err)
		h.respondError(c, err)
		return
	}

	h.logger.Debugf("GET [GetPostTips] Successful, post: %s, tips: %d", postID, len(agg.Tips))
	c.JSON(http.StatusOK, agg)
}
