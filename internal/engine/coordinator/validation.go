package coordinator

import (
	"fmt"

	"github.com/arcadegrid/arcadegrid-backend/internal/engine/types"
	errs "github.com/arcadegrid/arcadegrid-backend/pkg/errors"
	"github.com/arcadegrid/arcadegrid-backend/pkg/validator"
)

const (
	// Scores above this are outside any game the platform hosts and are
	// treated as malformed input rather than achievements.
	maxScore = int64(1) << 53

	maxMetadataBytes = 4096
)

// All submission fields arrive from untrusted clients and are checked
// before any state change.

func validateScoreSubmission(req types.SubmitScoreRequest) error {
	if !validator.IsValidIdentifier(req.GameID) {
		return fmt.Errorf("%w: malformed game id", errs.ErrInvalidPayload)
	}
	if !validator.IsValidIdentifier(req.PlayerID) {
		return fmt.Errorf("%w: malformed player id", errs.ErrInvalidPayload)
	}
	if req.Score < 0 || req.Score > maxScore {
		return fmt.Errorf("%w: score out of range", errs.ErrInvalidPayload)
	}
	if len(req.Metadata) > maxMetadataBytes {
		return fmt.Errorf("%w: metadata too large", errs.ErrInvalidPayload)
	}
	if req.PayloadHash != "" && !validator.IsValidPayloadHash(req.PayloadHash) {
		return fmt.Errorf("%w: malformed payload hash", errs.ErrInvalidPayload)
	}
	if req.TxRef != "" && !validator.IsValidTxHash(req.TxRef) {
		return fmt.Errorf("%w: malformed tx reference", errs.ErrInvalidPayload)
	}
	return nil
}

func validateTipSubmission(req types.SubmitTipRequest) error {
	if !validator.IsValidTxHash(req.TxID) {
		return fmt.Errorf("%w: malformed tx id", errs.ErrInvalidPayload)
	}
	if !validator.IsValidAddress(req.Sender) {
		return fmt.Errorf("%w: malformed sender address", errs.ErrInvalidPayload)
	}
	if !validator.IsValidAddress(req.Recipient) {
		return fmt.Errorf("%w: malformed recipient address", errs.ErrInvalidPayload)
	}
	if req.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", errs.ErrInvalidPayload)
	}
	if req.PostID != "" && !validator.IsValidIdentifier(req.PostID) {
		return fmt.Errorf("%w: malformed post id", errs.ErrInvalidPayload)
	}
	return nil
}

func validIdentifier(id string) bool {
	return validator.IsValidIdentifier(id)
}

func validTxID(txID string) bool {
	return validator.IsValidTxHash(txID)
}
