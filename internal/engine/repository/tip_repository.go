package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"

	"github.com/arcadegrid/arcadegrid-backend/internal/engine/repository/queries"
	"github.com/arcadegrid/arcadegrid-backend/internal/engine/types"
	"github.com/arcadegrid/arcadegrid-backend/pkg/database"
	errs "github.com/arcadegrid/arcadegrid-backend/pkg/errors"
)

// TipRepository owns the tip event ledger keyed by on-chain tx id.
type TipRepository interface {
	// Record inserts the tip if its txId is unseen. When the txId already
	// exists it returns the stored event with created=false and performs no
	// write; client retries of the same transaction are absorbed.
	Record(ctx context.Context, ev types.TipEvent) (bool, types.TipEvent, error)
	Get(ctx context.Context, txID string) (types.TipEvent, bool, error)
	// Transition advances pending -> confirmed or pending -> failed. Any
	// other requested transition fails with ErrInvalidTransition and leaves
	// state unchanged; terminal states are immutable.
	Transition(ctx context.Context, txID string, to types.TipStatus) (types.TipEvent, error)
	ListPending(ctx context.Context) ([]types.TipEvent, error)
}

type tipRepository struct {
	db *database.Connection
}

func NewTipRepository(db *database.Connection) TipRepository {
	return &tipRepository{
		db: db,
	}
}

func (r *tipRepository) Record(ctx context.Context, ev types.TipEvent) (bool, types.TipEvent, error) {
	prev := make(map[string]interface{})
	applied, err := r.db.Session().Query(queries.InsertTipEventQuery,
		ev.TxID, ev.Sender, ev.Recipient, ev.Amount, ev.PostID,
		string(ev.Status), ev.CreatedAt, ev.UpdatedAt,
	).WithContext(ctx).MapScanCAS(prev)
	if err != nil {
		return false, types.TipEvent{}, err
	}
	if applied {
		return true, ev, nil
	}

	// Lost to an earlier insert with the same txId; hand back the canonical
	// stored event.
	existing, found, err := r.Get(ctx, ev.TxID)
	if err != nil {
		return false, types.TipEvent{}, err
	}
	if !found {
		return false, types.TipEvent{}, fmt.Errorf("tip %s vanished after conditional insert", ev.TxID)
	}
	return false, existing, nil
}

func (r *tipRepository) Get(ctx context.Context, txID string) (types.TipEvent, bool, error) {
	ev := types.TipEvent{TxID: txID}
	var status string
	err := r.db.Session().Query(queries.SelectTipEventQuery, txID).
		WithContext(ctx).
		Scan(&ev.Sender, &ev.Recipient, &ev.Amount, &ev.PostID, &status, &ev.CreatedAt, &ev.UpdatedAt)
	if err == gocql.ErrNotFound {
		return types.TipEvent{}, false, nil
	}
	if err != nil {
		return types.TipEvent{}, false, err
	}
	ev.Status = types.TipStatus(status)
	return ev, true, nil
}

func (r *tipRepository) Transition(ctx context.Context, txID string, to types.TipStatus) (types.TipEvent, error) {
	current, found, err := r.Get(ctx, txID)
	if err != nil {
		return types.TipEvent{}, err
	}
	if !found {
		return types.TipEvent{}, fmt.Errorf("%w: %s", errs.ErrUnknownTip, txID)
	}
	if !current.Status.CanAdvanceTo(to) {
		return types.TipEvent{}, fmt.Errorf("%w: %s -> %s for %s", errs.ErrInvalidTransition, current.Status, to, txID)
	}

	now := time.Now().UTC()
	prev := make(map[string]interface{})
	applied, err := r.db.Session().Query(queries.UpdateTipStatusQuery,
		string(to), now, txID, string(types.TipStatusPending),
	).WithContext(ctx).MapScanCAS(prev)
	if err != nil {
		return types.TipEvent{}, err
	}
	if !applied {
		// Another caller finalized the tip between our read and the
		// conditional update. The terminal state wins.
		return types.TipEvent{}, fmt.Errorf("%w: tip %s already finalized", errs.ErrInvalidTransition, txID)
	}

	current.Status = to
	current.UpdatedAt = now
	return current, nil
}

func (r *tipRepository) ListPending(ctx context.Context) ([]types.TipEvent, error) {
	iter := r.db.Session().Query(queries.SelectPendingTipsQuery).
		WithContext(ctx).
		Iter()

	var pending []types.TipEvent
	ev := types.TipEvent{Status: types.TipStatusPending}
	for iter.Scan(&ev.TxID, &ev.Sender, &ev.Recipient, &ev.Amount, &ev.PostID, &ev.CreatedAt, &ev.UpdatedAt) {
		pending = append(pending, ev)
		ev = types.TipEvent{Status: types.TipStatusPending}
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}

	return pending, nil
}
