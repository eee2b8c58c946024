package types

import (
	"time"
)

// TipStatus is the lifecycle status of a tip. Pending is the only
// non-terminal state; confirmed and failed never transition again.
type TipStatus string

const (
	TipStatusPending   TipStatus = "pending"
	TipStatusConfirmed TipStatus = "confirmed"
	TipStatusFailed    TipStatus = "failed"
)

func (s TipStatus) Valid() bool {
	switch s {
	case TipStatusPending, TipStatusConfirmed, TipStatusFailed:
		return true
	}
	return false
}

func (s TipStatus) Terminal() bool {
	return s == TipStatusConfirmed || s == TipStatusFailed
}

// CanAdvanceTo reports whether the transition s -> to is legal.
// Only pending -> confirmed and pending -> failed are.
func (s TipStatus) CanAdvanceTo(to TipStatus) bool {
	return s == TipStatusPending && to.Terminal()
}

// TipEvent is a tip transaction keyed by its on-chain tx hash, which doubles
// as the idempotency key. Status is the only mutable field.
type TipEvent struct {
	TxID      string    `json:"tx_id"`
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient"`
	Amount    int64     `json:"amount"`
	PostID    string    `json:"post_id,omitempty"`
	Status    TipStatus `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostTip is one tip as listed on a post's feed, joined with its current
// ledger status.
type PostTip struct {
	TxID      string    `json:"tx_id"`
	Sender    string    `json:"sender"`
	Amount    int64     `json:"amount"`
	Status    TipStatus `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// PostTipAggregate is the derived per-post view. ConfirmedTotal counts
// confirmed tips only; pending tips are listed but excluded from the total
// until they transition.
type PostTipAggregate struct {
	PostID         string    `json:"post_id"`
	ConfirmedTotal int64     `json:"confirmed_total"`
	ConfirmedCount int       `json:"confirmed_count"`
	PendingCount   int       `json:"pending_count"`
	Tips           []PostTip `json:"tips"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type SubmitTipRequest struct {
	TxID      string `json:"tx_id"`
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
	PostID    string `json:"post_id,omitempty"`
	// Confirmed is set when the caller already holds confirmation evidence
	// at submission time (e.g. a wallet that waited for the receipt).
	Confirmed bool `json:"confirmed,omitempty"`
}

// TipResult is the engine-level outcome of a tip submission. Created is
// false when the txId had already been recorded; the client retry is
// absorbed, not punished.
type TipResult struct {
	Created bool     `json:"created"`
	Event   TipEvent `json:"event"`
}

type ConfirmTipRequest struct {
	Status TipStatus `json:"status"`
}
