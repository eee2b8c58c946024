// Package feed keeps the denormalized per-post tip aggregates eventually
// consistent with the tip ledger. Aggregates are always recomputed from
// ledger truth, never incremented, so applying the same transition twice
// cannot double-count.
package feed

import (
	"context"
	"time"

	"github.com/arcadegrid/arcadegrid-backend/internal/engine/repository"
	"github.com/arcadegrid/arcadegrid-backend/internal/engine/types"
	"github.com/arcadegrid/arcadegrid-backend/pkg/logging"
)

type Reconciler struct {
	feed   repository.FeedRepository
	logger logging.Logger
}

func NewReconciler(feed repository.FeedRepository, logger logging.Logger) *Reconciler {
	return &Reconciler{
		feed:   feed,
		logger: logger,
	}
}

// Attach adds a tip to its post's feed at creation time, whatever its
// status; pending tips are visible immediately, they just do not count
// toward the confirmed total.
func (r *Reconciler) Attach(ctx context.Context, postID string, ev types.TipEvent) error {
	if err := r.feed.AttachTip(ctx, postID, ev); err != nil {
		return err
	}
	_, err := r.Recompute(ctx, postID)
	return err
}

// OnTransition refreshes the post aggregate after the ledger advanced a
// tip's status. Safe to call more than once for the same transition.
func (r *Reconciler) OnTransition(ctx context.Context, ev types.TipEvent) error {
	if ev.PostID == "" {
		return nil
	}
	_, err := r.Recompute(ctx, ev.PostID)
	return err
}

// Recompute rebuilds the post's aggregate from the current ledger state and
// stores it.
func (r *Reconciler) Recompute(ctx context.Context, postID string) (types.PostTipAggregate, error) {
	tips, err := r.feed.ListPostTips(ctx, postID)
	if err != nil {
		return types.PostTipAggregate{}, err
	}

	agg := ComputeAggregate(postID, tips, time.Now().UTC())
	if err := r.feed.SaveAggregate(ctx, agg); err != nil {
		return types.PostTipAggregate{}, err
	}

	r.logger.Debugf("Recomputed aggregate for post %s: confirmed=%d pending=%d", postID, agg.ConfirmedTotal, agg.PendingCount)
	return agg, nil
}

// Aggregate returns the post's aggregate with its full tip list. The totals
// are always derived from the ledger-joined tip list, never from the stored
// row alone: a stored aggregate can lag the ledger when a transition's
// in-line refresh was lost, and a post with no pending tips left is outside
// the sweep's reach. A stale or missing stored row is rewritten on read, so
// every read converges the feed.
func (r *Reconciler) Aggregate(ctx context.Context, postID string) (types.PostTipAggregate, error) {
	tips, err := r.feed.ListPostTips(ctx, postID)
	if err != nil {
		return types.PostTipAggregate{}, err
	}

	fresh := ComputeAggregate(postID, tips, time.Now().UTC())

	stored, found, err := r.feed.GetAggregate(ctx, postID)
	if err != nil {
		return types.PostTipAggregate{}, err
	}
	if !found || !totalsMatch(stored, fresh) {
		if err := r.feed.SaveAggregate(ctx, fresh); err != nil {
			return types.PostTipAggregate{}, err
		}
	}

	fresh.Tips = tips
	return fresh, nil
}

func totalsMatch(a, b types.PostTipAggregate) bool {
	return a.ConfirmedTotal == b.ConfirmedTotal &&
		a.ConfirmedCount == b.ConfirmedCount &&
		a.PendingCount == b.PendingCount
}

// ComputeAggregate derives the aggregate from a post's tip list. Failed tips
// stay listed for transparency but are permanently excluded from the total.
func ComputeAggregate(postID string, tips []types.PostTip, now time.Time) types.PostTipAggregate {
	agg := types.PostTipAggregate{
		PostID:    postID,
		UpdatedAt: now,
	}
	for _, tip := range tips {
		switch tip.Status {
		case types.TipStatusConfirmed:
			agg.ConfirmedTotal += tip.Amount
			agg.ConfirmedCount++
		case types.TipStatusPending:
			agg.PendingCount++
		}
	}
	return agg
}
