package types

import (
	"encoding/json"
	"time"

	"github.com/gocql/gocql"
)

// ScoreEvent is an immutable record of one accepted score submission.
// Events are append-only; nothing mutates them after insertion.
type ScoreEvent struct {
	GameID      string     `json:"game_id"`
	PlayerID    string     `json:"player_id"`
	EventID     gocql.UUID `json:"event_id"`
	Score       int64      `json:"score"`
	Metadata    string     `json:"metadata,omitempty"`
	PayloadHash string     `json:"payload_hash,omitempty"`
	TxRef       string     `json:"tx_ref,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Protected reports whether the event carried a replay hash. Unprotected
// events participate in scoring but are excluded from replay-protected
// statistics.
func (e ScoreEvent) Protected() bool {
	return e.PayloadHash != ""
}

// PlayerBest is the derived highest-score record per (game, player).
// AchievedAt only moves when the score strictly increases, so the first
// player to reach a score keeps the tie-break timestamp.
type PlayerBest struct {
	GameID     string     `json:"game_id"`
	PlayerID   string     `json:"player_id"`
	Score      int64      `json:"score"`
	EventID    gocql.UUID `json:"event_id"`
	AchievedAt time.Time  `json:"achieved_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// LeaderboardEntry is a read-only ranked projection of a PlayerBest row.
type LeaderboardEntry struct {
	Rank       int       `json:"rank"`
	PlayerID   string    `json:"player_id"`
	Score      int64     `json:"score"`
	AchievedAt time.Time `json:"achieved_at"`
}

type SubmitScoreRequest struct {
	GameID      string          `json:"game_id"`
	PlayerID    string          `json:"player_id"`
	Score       int64           `json:"score"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	PayloadHash string          `json:"payload_hash,omitempty"`
	TxRef       string          `json:"tx_ref,omitempty"`
}

// ScoreResult is the engine-level outcome of a score submission.
type ScoreResult struct {
	Accepted  bool       `json:"accepted"`
	NewBest   bool       `json:"new_best"`
	Rank      int        `json:"rank"`
	Protected bool       `json:"protected"`
	Event     ScoreEvent `json:"event"`
}

type SubmitScoreResponse struct {
	Accepted  bool `json:"accepted"`
	Duplicate bool `json:"duplicate,omitempty"`
	NewBest   bool `json:"new_best"`
	Rank      int  `json:"rank,omitempty"`
	Protected bool `json:"protected"`
}
