package repository

import (
	"context"
	"time"

	"github.com/arcadegrid/arcadegrid-backend/internal/engine/repository/queries"
	"github.com/arcadegrid/arcadegrid-backend/pkg/database"
)

// ReplayRepository is the persistent seen-hash set behind replay protection.
// The set is scoped per game; admission for one game never contends with
// another.
type ReplayRepository interface {
	// Admit atomically checks and inserts the hash. It returns false when the
	// hash was already admitted, with no other effect. Check and insert are a
	// single conditional write, never two steps.
	Admit(ctx context.Context, gameID, payloadHash string, seenAt time.Time) (bool, error)
}

type replayRepository struct {
	db *database.Connection
}

func NewReplayRepository(db *database.Connection) ReplayRepository {
	return &replayRepository{
		db: db,
	}
}

func (r *replayRepository) Admit(ctx context.Context, gameID, payloadHash string, seenAt time.Time) (bool, error) {
	prev := make(map[string]interface{})
	applied, err := r.db.Session().
		Query(queries.InsertReplayHashQuery, gameID, payloadHash, seenAt).
		WithContext(ctx).
		MapScanCAS(prev)
	if err != nil {
		return false, err
	}
	return applied, nil
}
