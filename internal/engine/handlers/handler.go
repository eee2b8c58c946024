package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arcadegrid/arcadegrid-backend/internal/engine/types"
	"github.com/arcadegrid/arcadegrid-backend/pkg/database"
	errs "github.com/arcadegrid/arcadegrid-backend/pkg/errors"
	"github.com/arcadegrid/arcadegrid-backend/pkg/logging"
)

// Engine is the submission pipeline the HTTP layer fronts. Implemented by
// *coordinator.Coordinator.
type Engine interface {
	SubmitScore(ctx context.Context, req types.SubmitScoreRequest) (types.ScoreResult, error)
	SubmitTip(ctx context.Context, req types.SubmitTipRequest) (types.TipResult, error)
	ConfirmTip(ctx context.Context, txID string, status types.TipStatus) (types.TipEvent, error)
	GetLeaderboard(ctx context.Context, gameID string, limit int) ([]types.LeaderboardEntry, error)
	GetPlayerRank(ctx context.Context, gameID, playerID string) (types.LeaderboardEntry, bool, error)
	GetPostAggregate(ctx context.Context, postID string) (types.PostTipAggregate, error)
}

type Handler struct {
	engine Engine
	db     *database.Connection
	logger logging.Logger
}

func NewHandler(engine Engine, db *database.Connection, logger logging.Logger) *Handler {
	return &Handler{
		engine: engine,
		db:     db,
		logger: logger,
	}
}

// respondError maps an engine error onto its HTTP status. Duplicate
// submissions never reach here: the submission handlers absorb them as
// successful responses.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrInvalidPayload):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrUnknownTip):
		c.JSON(http.StatusNotFound, gin.H{"error": errs.MsgRecordNotFound})
	case errors.Is(err, errs.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errs.MsgStorageUnavailable})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": errs.MsgDBOperationFailed})
	}
}
