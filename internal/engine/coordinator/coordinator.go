// Package coordinator orchestrates the two write pipelines: replay guard ->
// score ledger -> leaderboard for scores, and tip ledger -> feed reconciler
// for tips. The pipelines are independent; they share only the retry
// discipline for transient storage failures.
package coordinator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gocql/gocql"

	"github.com/arcadegrid/arcadegrid-backend/internal/engine/feed"
	"github.com/arcadegrid/arcadegrid-backend/internal/engine/metrics"
	"github.com/arcadegrid/arcadegrid-backend/internal/engine/ranking"
	"github.com/arcadegrid/arcadegrid-backend/internal/engine/repository"
	"github.com/arcadegrid/arcadegrid-backend/internal/engine/types"
	"github.com/arcadegrid/arcadegrid-backend/pkg/database"
	errs "github.com/arcadegrid/arcadegrid-backend/pkg/errors"
	"github.com/arcadegrid/arcadegrid-backend/pkg/logging"
	"github.com/arcadegrid/arcadegrid-backend/pkg/retry"
)

const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100

	leaderboardCacheTTL = 30 * time.Second
)

// Cache is the subset of the redis client the coordinator uses for the
// leaderboard read cache. A nil cache disables caching.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type Coordinator struct {
	replays    repository.ReplayRepository
	scores     repository.ScoreRepository
	tips       repository.TipRepository
	reconciler *feed.Reconciler
	cache      Cache
	logger     logging.Logger
	retryCfg   *retry.RetryConfig
}

func New(
	replays repository.ReplayRepository,
	scores repository.ScoreRepository,
	tips repository.TipRepository,
	reconciler *feed.Reconciler,
	cache Cache,
	logger logging.Logger,
) *Coordinator {
	return &Coordinator{
		replays:    replays,
		scores:     scores,
		tips:       tips,
		reconciler: reconciler,
		cache:      cache,
		logger:     logger,
		retryCfg:   storageRetryConfig(),
	}
}

// storageRetryConfig bounds retries of idempotent persistence operations.
// Only transient storage failures are retried; everything else surfaces
// immediately.
func storageRetryConfig() *retry.RetryConfig {
	return &retry.RetryConfig{
		MaxRetries:      3,
		InitialDelay:    100 * time.Millisecond,
		MaxDelay:        2 * time.Second,
		BackoffFactor:   2.0,
		JitterFactor:    0.2,
		LogRetryAttempt: true,
		ShouldRetry: func(err error, attempt int) bool {
			return database.IsRetryable(err)
		},
	}
}

// classify maps a pipeline error onto the engine taxonomy. Expected caller
// outcomes pass through; anything else is a storage failure that exhausted
// its retries.
func classify(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, errs.ErrInvalidPayload),
		errors.Is(err, errs.ErrDuplicateSubmission),
		errors.Is(err, errs.ErrUnknownTip),
		errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return fmt.Errorf("%w: %v", errs.ErrStorageUnavailable, err)
}

// SubmitScore runs the score pipeline: validate, admit the replay hash,
// append the event, update PlayerBest, report the resulting rank. A failed
// admission short-circuits before any ledger write.
func (c *Coordinator) SubmitScore(ctx context.Context, req types.SubmitScoreRequest) (types.ScoreResult, error) {
	if err := validateScoreSubmission(req); err != nil {
		metrics.ScoreSubmissionsTotal.WithLabelValues("invalid").Inc()
		return types.ScoreResult{}, err
	}

	now := time.Now().UTC()
	protected := req.PayloadHash != ""

	if protected {
		admitted, err := retry.Retry(ctx, func() (bool, error) {
			return c.replays.Admit(ctx, req.GameID, req.PayloadHash, now)
		}, c.retryCfg, c.logger)
		if err != nil {
			metrics.ScoreSubmissionsTotal.WithLabelValues("error").Inc()
			return types.ScoreResult{}, classify(err)
		}
		if !admitted {
			metrics.ScoreSubmissionsTotal.WithLabelValues("duplicate").Inc()
			return types.ScoreResult{}, fmt.Errorf("%w: hash %s for game %s", errs.ErrDuplicateSubmission, req.PayloadHash, req.GameID)
		}
	} else {
		metrics.UnprotectedSubmissionsTotal.Inc()
	}

	ev := types.ScoreEvent{
		GameID:      req.GameID,
		PlayerID:    req.PlayerID,
		EventID:     gocql.TimeUUID(),
		Score:       req.Score,
		Metadata:    string(req.Metadata),
		PayloadHash: req.PayloadHash,
		TxRef:       req.TxRef,
		CreatedAt:   now,
	}

	// The event id is fixed before the insert, so retrying the append
	// rewrites the same row instead of duplicating it.
	trackAppend := metrics.TrackDBOperation("write", "score_events")
	err := retry.RetryFunc(ctx, func() error {
		return c.scores.AppendEvent(ctx, &ev)
	}, c.retryCfg, c.logger)
	trackAppend(err)
	if err != nil {
		metrics.ScoreSubmissionsTotal.WithLabelValues("error").Inc()
		return types.ScoreResult{}, classify(err)
	}

	// Re-running the compare-and-update against current state is idempotent,
	// so it is safe to retry on transient failures.
	trackBest := metrics.TrackDBOperation("write", "player_best")
	newBest, err := retry.Retry(ctx, func() (bool, error) {
		return c.scores.RecordBest(ctx, ev)
	}, c.retryCfg, c.logger)
	trackBest(err)
	if err != nil {
		metrics.ScoreSubmissionsTotal.WithLabelValues("error").Inc()
		return types.ScoreResult{}, classify(err)
	}

	if newBest {
		metrics.NewBestsTotal.Inc()
		c.invalidateBoard(ctx, req.GameID)
	}

	rank := 0
	bests, err := c.loadBoard(ctx, req.GameID)
	if err != nil {
		// The submission is committed; a rank lookup failure should not fail
		// the write. Report rank 0 (unknown) instead.
		c.logger.Warnf("Rank lookup failed for game %s: %v", req.GameID, err)
	} else if r, found := ranking.RankOf(bests, req.PlayerID); found {
		rank = r
	}

	metrics.ScoreSubmissionsTotal.WithLabelValues("accepted").Inc()
	return types.ScoreResult{
		Accepted:  true,
		NewBest:   newBest,
		Rank:      rank,
		Protected: ev.Protected(),
		Event:     ev,
	}, nil
}

// SubmitTip records a tip idempotently by txId and attaches it to its post.
// Re-attachment on a duplicate is harmless: the attachment row is keyed by
// the canonical event, so replays rewrite the same row.
func (c *Coordinator) SubmitTip(ctx context.Context, req types.SubmitTipRequest) (types.TipResult, error) {
	if err := validateTipSubmission(req); err != nil {
		metrics.TipSubmissionsTotal.WithLabelValues("invalid").Inc()
		return types.TipResult{}, err
	}

	now := time.Now().UTC()
	status := types.TipStatusPending
	if req.Confirmed {
		status = types.TipStatusConfirmed
	}

	ev := types.TipEvent{
		TxID:      req.TxID,
		Sender:    req.Sender,
		Recipient: req.Recipient,
		Amount:    req.Amount,
		PostID:    req.PostID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	trackRecord := metrics.TrackDBOperation("write", "tip_events")
	res, err := retry.Retry(ctx, func() (tipRecordResult, error) {
		created, canonical, err := c.tips.Record(ctx, ev)
		return tipRecordResult{created, canonical}, err
	}, c.retryCfg, c.logger)
	trackRecord(err)
	if err != nil {
		metrics.TipSubmissionsTotal.WithLabelValues("error").Inc()
		return types.TipResult{}, classify(err)
	}

	if res.event.PostID != "" {
		if err := c.reconciler.Attach(ctx, res.event.PostID, res.event); err != nil {
			metrics.TipSubmissionsTotal.WithLabelValues("error").Inc()
			return types.TipResult{}, classify(err)
		}
	}

	if res.created {
		metrics.TipSubmissionsTotal.WithLabelValues("created").Inc()
	} else {
		metrics.TipSubmissionsTotal.WithLabelValues("duplicate").Inc()
	}

	return types.TipResult{Created: res.created, Event: res.event}, nil
}

type tipRecordResult struct {
	created bool
	event   types.TipEvent
}

// ConfirmTip applies an on-chain confirmation signal to the tip ledger and
// refreshes the post aggregate. The feed refresh is best-effort: the
// reconciliation sweep converges any post whose refresh was lost.
func (c *Coordinator) ConfirmTip(ctx context.Context, txID string, status types.TipStatus) (types.TipEvent, error) {
	if !validTxID(txID) {
		return types.TipEvent{}, fmt.Errorf("%w: malformed tx id", errs.ErrInvalidPayload)
	}
	if !status.Valid() {
		return types.TipEvent{}, fmt.Errorf("%w: unknown status %q", errs.ErrInvalidPayload, status)
	}
	if !status.Terminal() {
		return types.TipEvent{}, fmt.Errorf("%w: cannot transition to %s", errs.ErrInvalidTransition, status)
	}

	// The transition is deliberately not retried: a timed-out conditional
	// update may have applied, and replaying it would read the tip as already
	// finalized and misreport a successful transition as invalid. A transient
	// failure surfaces as ErrStorageUnavailable and the caller (or the
	// confirmation sweep) tries again.
	trackOp := metrics.TrackDBOperation("write", "tip_events")
	ev, err := c.tips.Transition(ctx, txID, status)
	trackOp(err)
	if err != nil {
		return types.TipEvent{}, classify(err)
	}

	metrics.TipTransitionsTotal.WithLabelValues(string(status)).Inc()

	if err := c.reconciler.OnTransition(ctx, ev); err != nil {
		c.logger.Warnf("Aggregate refresh failed for post %s after %s -> %s: %v", ev.PostID, types.TipStatusPending, status, err)
	}

	return ev, nil
}

// GetLeaderboard returns the top entries for a game, serving from the cache
// when possible.
func (c *Coordinator) GetLeaderboard(ctx context.Context, gameID string, limit int) ([]types.LeaderboardEntry, error) {
	if !validIdentifier(gameID) {
		return nil, fmt.Errorf("%w: malformed game id", errs.ErrInvalidPayload)
	}
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		limit = MaxLeaderboardLimit
	}

	bests, err := c.loadBoard(ctx, gameID)
	if err != nil {
		return nil, classify(err)
	}
	return ranking.Entries(bests, limit), nil
}

// GetPlayerRank returns the ranked entry for one player.
// found is false when the player has no best score in the game.
func (c *Coordinator) GetPlayerRank(ctx context.Context, gameID, playerID string) (types.LeaderboardEntry, bool, error) {
	if !validIdentifier(gameID) || !validIdentifier(playerID) {
		return types.LeaderboardEntry{}, false, fmt.Errorf("%w: malformed identifier", errs.ErrInvalidPayload)
	}

	bests, err := c.loadBoard(ctx, gameID)
	if err != nil {
		return types.LeaderboardEntry{}, false, classify(err)
	}

	rank, found := ranking.RankOf(bests, playerID)
	if !found {
		return types.LeaderboardEntry{}, false, nil
	}
	best := bests[rank-1]
	return types.LeaderboardEntry{
		Rank:       rank,
		PlayerID:   best.PlayerID,
		Score:      best.Score,
		AchievedAt: best.AchievedAt,
	}, true, nil
}

// GetPostAggregate returns the post's confirmed total and full tip list.
func (c *Coordinator) GetPostAggregate(ctx context.Context, postID string) (types.PostTipAggregate, error) {
	if !validIdentifier(postID) {
		return types.PostTipAggregate{}, fmt.Errorf("%w: malformed post id", errs.ErrInvalidPayload)
	}
	agg, err := c.reconciler.Aggregate(ctx, postID)
	if err != nil {
		return types.PostTipAggregate{}, classify(err)
	}
	return agg, nil
}

// PendingTips lists tips awaiting an on-chain outcome. Consumed by the
// confirmation watcher.
func (c *Coordinator) PendingTips(ctx context.Context) ([]types.TipEvent, error) {
	pending, err := c.tips.ListPending(ctx)
	if err != nil {
		return nil, classify(err)
	}
	return pending, nil
}

// ReconcilePending recomputes the aggregates of every post that still holds
// a pending tip. Run periodically so the feed converges even when an
// OnTransition refresh was lost.
func (c *Coordinator) ReconcilePending(ctx context.Context) error {
	pending, err := c.tips.ListPending(ctx)
	if err != nil {
		return classify(err)
	}

	posts := make(map[string]struct{})
	for _, tip := range pending {
		if tip.PostID != "" {
			posts[tip.PostID] = struct{}{}
		}
	}

	for postID := range posts {
		if _, err := c.reconciler.Recompute(ctx, postID); err != nil {
			c.logger.Warnf("Reconcile sweep failed for post %s: %v", postID, err)
		}
	}

	return nil
}

func (c *Coordinator) boardCacheKey(gameID string) string {
	return "leaderboard:" + gameID
}

// loadBoard returns the game's PlayerBest rows in leaderboard order,
// cache-aside. Cache failures fall back to the database silently.
func (c *Coordinator) loadBoard(ctx context.Context, gameID string) ([]types.PlayerBest, error) {
	key := c.boardCacheKey(gameID)

	if c.cache != nil {
		cached, hit, err := c.cache.Get(ctx, key)
		if err != nil {
			c.logger.Debugf("Leaderboard cache read failed for %s: %v", gameID, err)
		} else if hit {
			var bests []types.PlayerBest
			if err := json.Unmarshal([]byte(cached), &bests); err == nil {
				metrics.LeaderboardCacheTotal.WithLabelValues("hit").Inc()
				return bests, nil
			}
		}
		metrics.LeaderboardCacheTotal.WithLabelValues("miss").Inc()
	}

	trackOp := metrics.TrackDBOperation("read", "player_best")
	bests, err := c.scores.ListPlayerBests(ctx, gameID)
	trackOp(err)
	if err != nil {
		return nil, err
	}
	ranking.Sort(bests)

	if c.cache != nil {
		if payload, err := json.Marshal(bests); err == nil {
			if err := c.cache.Set(ctx, key, string(payload), leaderboardCacheTTL); err != nil {
				c.logger.Debugf("Leaderboard cache write failed for %s: %v", gameID, err)
			}
		}
	}

	return bests, nil
}

func (c *Coordinator) invalidateBoard(ctx context.Context, gameID string) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Del(ctx, c.boardCacheKey(gameID)); err != nil {
		c.logger.Debugf("Leaderboard cache invalidation failed for %s: %v", gameID, err)
	}
}
