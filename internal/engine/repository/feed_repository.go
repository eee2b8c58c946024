package repository

import (
	"context"
	"time"

	"github.com/gocql/gocql"

	"github.com/arcadegrid/arcadegrid-backend/internal/engine/repository/queries"
	"github.com/arcadegrid/arcadegrid-backend/internal/engine/types"
	"github.com/arcadegrid/arcadegrid-backend/pkg/database"
)

// FeedRepository stores the per-post tip attachments and the denormalized
// aggregate row. Attachments are append-only; the aggregate is rewritten
// wholesale on each recompute, which makes recomputation idempotent.
type FeedRepository interface {
	AttachTip(ctx context.Context, postID string, ev types.TipEvent) error
	// ListPostTips returns the post's tips in attachment order, each joined
	// with its current ledger status.
	ListPostTips(ctx context.Context, postID string) ([]types.PostTip, error)
	SaveAggregate(ctx context.Context, agg types.PostTipAggregate) error
	GetAggregate(ctx context.Context, postID string) (types.PostTipAggregate, bool, error)
}

type feedRepository struct {
	db *database.Connection
}

func NewFeedRepository(db *database.Connection) FeedRepository {
	return &feedRepository{
		db: db,
	}
}

func (r *feedRepository) AttachTip(ctx context.Context, postID string, ev types.TipEvent) error {
	return r.db.Session().Query(queries.InsertPostTipQuery,
		postID, ev.CreatedAt, ev.TxID, ev.Sender, ev.Amount,
	).WithContext(ctx).Exec()
}

func (r *feedRepository) ListPostTips(ctx context.Context, postID string) ([]types.PostTip, error) {
	iter := r.db.Session().Query(queries.SelectPostTipsQuery, postID).
		WithContext(ctx).
		Iter()

	var tips []types.PostTip
	var tip types.PostTip
	for iter.Scan(&tip.CreatedAt, &tip.TxID, &tip.Sender, &tip.Amount) {
		tips = append(tips, tip)
		tip = types.PostTip{}
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}

	for i := range tips {
		var status string
		err := r.db.Session().Query(queries.SelectTipStatusQuery, tips[i].TxID).
			WithContext(ctx).
			Scan(&status)
		if err == gocql.ErrNotFound {
			// Attachment without a ledger row should not happen; surface the
			// tip as pending rather than hiding it from the feed.
			tips[i].Status = types.TipStatusPending
			continue
		}
		if err != nil {
			return nil, err
		}
		tips[i].Status = types.TipStatus(status)
	}

	return tips, nil
}

func (r *feedRepository) SaveAggregate(ctx context.Context, agg types.PostTipAggregate) error {
	return r.db.Session().Query(queries.UpsertPostAggregateQuery,
		agg.PostID, agg.ConfirmedTotal, agg.ConfirmedCount, agg.PendingCount, agg.UpdatedAt,
	).WithContext(ctx).Exec()
}

func (r *feedRepository) GetAggregate(ctx context.Context, postID string) (types.PostTipAggregate, bool, error) {
	agg := types.PostTipAggregate{PostID: postID}
	var updatedAt time.Time
	err := r.db.Session().Query(queries.SelectPostAggregateQuery, postID).
		WithContext(ctx).
		Scan(&agg.ConfirmedTotal, &agg.ConfirmedCount, &agg.PendingCount, &updatedAt)
	if err == gocql.ErrNotFound {
		return types.PostTipAggregate{}, false, nil
	}
	if err != nil {
		return types.PostTipAggregate{}, false, err
	}
	agg.UpdatedAt = updatedAt
	return agg, true, nil
}
