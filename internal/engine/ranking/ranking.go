// Package ranking defines the total order used by every leaderboard read.
// The order is (score desc, achieved_at asc, player_id asc): higher scores
// first, ties broken by whoever reached the score earliest, and player id
// as a final deterministic tiebreak.
package ranking

import (
	"sort"

	"github.com/arcadegrid/arcadegrid-backend/internal/engine/types"
)

// Less reports whether a ranks strictly ahead of b.
func Less(a, b types.PlayerBest) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if !a.AchievedAt.Equal(b.AchievedAt) {
		return a.AchievedAt.Before(b.AchievedAt)
	}
	return a.PlayerID < b.PlayerID
}

// Sort orders bests in place by the leaderboard total order.
func Sort(bests []types.PlayerBest) {
	sort.Slice(bests, func(i, j int) bool {
		return Less(bests[i], bests[j])
	})
}

// Entries converts sorted bests into ranked leaderboard entries, capped at
// limit. A limit <= 0 means no cap.
func Entries(bests []types.PlayerBest, limit int) []types.LeaderboardEntry {
	n := len(bests)
	if limit > 0 && limit < n {
		n = limit
	}
	entries := make([]types.LeaderboardEntry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, types.LeaderboardEntry{
			Rank:       i + 1,
			PlayerID:   bests[i].PlayerID,
			Score:      bests[i].Score,
			AchievedAt: bests[i].AchievedAt,
		})
	}
	return entries
}

// RankOf returns the 1-based rank of playerID within sorted bests.
// found is false when the player has no PlayerBest row.
func RankOf(bests []types.PlayerBest, playerID string) (int, bool) {
	for i := range bests {
		if bests[i].PlayerID == playerID {
			return i + 1, true
		}
	}
	return 0, false
}
