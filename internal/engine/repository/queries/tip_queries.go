package queries

const (
	InsertTipEventQuery = `
		INSERT INTO arcadegrid.tip_events (
			tx_id, sender, recipient, amount, post_id, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?) IF NOT EXISTS`

	SelectTipEventQuery = `
		SELECT sender, recipient, amount, post_id, status, created_at, updated_at
		FROM arcadegrid.tip_events
		WHERE tx_id = ?`

	UpdateTipStatusQuery = `
		UPDATE arcadegrid.tip_events
		SET status = ?, updated_at = ?
		WHERE tx_id = ?
		IF status = ?`

	SelectPendingTipsQuery = `
		SELECT tx_id, sender, recipient, amount, post_id, created_at, updated_at
		FROM arcadegrid.tip_events
		WHERE status = 'pending' ALLOW FILTERING`

	InsertPostTipQuery = `
		INSERT INTO arcadegrid.post_tips (post_id, created_at, tx_id, sender, amount)
		VALUES (?, ?, ?, ?, ?)`

	SelectPostTipsQuery = `
		SELECT created_at, tx_id, sender, amount
		FROM arcadegrid.post_tips
		WHERE post_id = ?`

	SelectTipStatusQuery = `
		SELECT status FROM arcadegrid.tip_events
		WHERE tx_id = ?`

	UpsertPostAggregateQuery = `
		INSERT INTO arcadegrid.post_aggregates (
			post_id, confirmed_total, confirmed_count, pending_count, updated_at
		) VALUES (?, ?, ?, ?, ?)`

	SelectPostAggregateQuery = `
		SELECT confirmed_total, confirmed_count, pending_count, updated_at
		FROM arcadegrid.post_aggregates
		WHERE post_id = ?`
)
