package repository

import (
	"context"
	"errors"
	"time"

	"github.com/gocql/gocql"

	"github.com/arcadegrid/arcadegrid-backend/internal/engine/repository/queries"
	"github.com/arcadegrid/arcadegrid-backend/internal/engine/types"
	"github.com/arcadegrid/arcadegrid-backend/pkg/database"
)

// The PlayerBest compare-and-update loops on LWT contention; five rounds is
// far beyond what concurrent submissions for one player produce in practice.
const maxBestCASAttempts = 5

var errBestContention = errors.New("player best update lost too many races")

// ScoreRepository owns the append-only score event ledger and the derived
// PlayerBest rows.
type ScoreRepository interface {
	AppendEvent(ctx context.Context, ev *types.ScoreEvent) error
	// RecordBest compares the event's score against the current PlayerBest
	// for (game, player) and replaces it when strictly greater or absent.
	// Equal scores never update, so the first achiever keeps the tie-break
	// timestamp. The comparison and update are atomic per key.
	RecordBest(ctx context.Context, ev types.ScoreEvent) (bool, error)
	GetPlayerBest(ctx context.Context, gameID, playerID string) (types.PlayerBest, bool, error)
	ListPlayerBests(ctx context.Context, gameID string) ([]types.PlayerBest, error)
}

type scoreRepository struct {
	db *database.Connection
}

func NewScoreRepository(db *database.Connection) ScoreRepository {
	return &scoreRepository{
		db: db,
	}
}

func (r *scoreRepository) AppendEvent(ctx context.Context, ev *types.ScoreEvent) error {
	return r.db.Session().Query(queries.InsertScoreEventQuery,
		ev.GameID, ev.PlayerID, ev.EventID, ev.Score, ev.Metadata,
		ev.PayloadHash, ev.TxRef, ev.CreatedAt,
	).WithContext(ctx).Exec()
}

func (r *scoreRepository) RecordBest(ctx context.Context, ev types.ScoreEvent) (bool, error) {
	now := time.Now().UTC()

	for attempt := 0; attempt < maxBestCASAttempts; attempt++ {
		current, found, err := r.GetPlayerBest(ctx, ev.GameID, ev.PlayerID)
		if err != nil {
			return false, err
		}

		if !found {
			prev := make(map[string]interface{})
			applied, err := r.db.Session().Query(queries.InsertPlayerBestQuery,
				ev.GameID, ev.PlayerID, ev.Score, ev.EventID, ev.CreatedAt, now,
			).WithContext(ctx).MapScanCAS(prev)
			if err != nil {
				return false, err
			}
			if applied {
				return true, nil
			}
			// Another submission created the row first; re-read and compare.
			continue
		}

		if ev.Score <= current.Score {
			return false, nil
		}

		prev := make(map[string]interface{})
		applied, err := r.db.Session().Query(queries.UpdatePlayerBestQuery,
			ev.Score, ev.EventID, ev.CreatedAt, now,
			ev.GameID, ev.PlayerID,
			current.Score,
		).WithContext(ctx).MapScanCAS(prev)
		if err != nil {
			return false, err
		}
		if applied {
			return true, nil
		}
		// Stale read: another submission advanced the best between our read
		// and the conditional update. Loop and compare against fresh state.
	}

	return false, errBestContention
}

func (r *scoreRepository) GetPlayerBest(ctx context.Context, gameID, playerID string) (types.PlayerBest, bool, error) {
	best := types.PlayerBest{GameID: gameID, PlayerID: playerID}
	err := r.db.Session().Query(queries.SelectPlayerBestQuery, gameID, playerID).
		WithContext(ctx).
		Scan(&best.Score, &best.EventID, &best.AchievedAt, &best.UpdatedAt)
	if err == gocql.ErrNotFound {
		return types.PlayerBest{}, false, nil
	}
	if err != nil {
		return types.PlayerBest{}, false, err
	}
	return best, true, nil
}

func (r *scoreRepository) ListPlayerBests(ctx context.Context, gameID string) ([]types.PlayerBest, error) {
	iter := r.db.Session().Query(queries.SelectPlayerBestsByGameQuery, gameID).
		WithContext(ctx).
		Iter()

	var bests []types.PlayerBest
	best := types.PlayerBest{GameID: gameID}
	for iter.Scan(&best.PlayerID, &best.Score, &best.EventID, &best.AchievedAt, &best.UpdatedAt) {
		bests = append(bests, best)
		best = types.PlayerBest{GameID: gameID}
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}

	return bests, nil
}
