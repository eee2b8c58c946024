package queries

const (
	InsertReplayHashQuery = `
		INSERT INTO arcadegrid.replay_hashes (game_id, payload_hash, seen_at)
		VALUES (?, ?, ?) IF NOT EXISTS`

	InsertScoreEventQuery = `
		INSERT INTO arcadegrid.score_events (
			game_id, player_id, event_id, score, metadata,
			payload_hash, tx_ref, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	SelectPlayerBestQuery = `
		SELECT score, event_id, achieved_at, updated_at
		FROM arcadegrid.player_best
		WHERE game_id = ? AND player_id = ?`

	InsertPlayerBestQuery = `
		INSERT INTO arcadegrid.player_best (
			game_id, player_id, score, event_id, achieved_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?) IF NOT EXISTS`

	UpdatePlayerBestQuery = `
		UPDATE arcadegrid.player_best
		SET score = ?, event_id = ?, achieved_at = ?, updated_at = ?
		WHERE game_id = ? AND player_id = ?
		IF score = ?`

	SelectPlayerBestsByGameQuery = `
		SELECT player_id, score, event_id, achieved_at, updated_at
		FROM arcadegrid.player_best
		WHERE game_id = ?`
)
