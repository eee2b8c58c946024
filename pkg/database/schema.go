package database

import (
	"github.com/gocql/gocql"
)

// InitSchema creates the keyspace and tables if they do not exist.
// Score and tip event tables are append-only; player_best and tip_events
// carry the only mutable columns and are updated through LWT conditions.
func InitSchema(session *gocql.Session) error {
	if err := session.Query(`
		CREATE KEYSPACE IF NOT EXISTS arcadegrid
		WITH replication = {
			'class': 'SimpleStrategy',
			'replication_factor': 1
		}`).Exec(); err != nil {
		return err
	}

	// Admitted replay hashes, partitioned per game. Admission is an
	// INSERT ... IF NOT EXISTS so check and insert are one atomic step.
	if err := session.Query(`
		CREATE TABLE IF NOT EXISTS arcadegrid.replay_hashes (
			game_id text,
			payload_hash text,
			seen_at timestamp,
			PRIMARY KEY ((game_id), payload_hash)
		)`).Exec(); err != nil {
		return err
	}

	if err := session.Query(`
		CREATE TABLE IF NOT EXISTS arcadegrid.score_events (
			game_id text,
			player_id text,
			event_id timeuuid,
			score bigint,
			metadata text,
			payload_hash text,
			tx_ref text,
			created_at timestamp,
			PRIMARY KEY ((game_id, player_id), event_id)
		) WITH CLUSTERING ORDER BY (event_id DESC)`).Exec(); err != nil {
		return err
	}

	// One partition per game so a leaderboard read scans a single partition.
	if err := session.Query(`
		CREATE TABLE IF NOT EXISTS arcadegrid.player_best (
			game_id text,
			player_id text,
			score bigint,
			event_id timeuuid,
			achieved_at timestamp,
			updated_at timestamp,
			PRIMARY KEY ((game_id), player_id)
		)`).Exec(); err != nil {
		return err
	}

	if err := session.Query(`
		CREATE TABLE IF NOT EXISTS arcadegrid.tip_events (
			tx_id text PRIMARY KEY,
			sender text,
			recipient text,
			amount bigint,
			post_id text,
			status text,
			created_at timestamp,
			updated_at timestamp
		)`).Exec(); err != nil {
		return err
	}

	if err := session.Query(`
		CREATE TABLE IF NOT EXISTS arcadegrid.post_tips (
			post_id text,
			created_at timestamp,
			tx_id text,
			sender text,
			amount bigint,
			PRIMARY KEY ((post_id), created_at, tx_id)
		)`).Exec(); err != nil {
		return err
	}

	if err := session.Query(`
		CREATE TABLE IF NOT EXISTS arcadegrid.post_aggregates (
			post_id text PRIMARY KEY,
			confirmed_total bigint,
			confirmed_count int,
			pending_count int,
			updated_at timestamp
		)`).Exec(); err != nil {
		return err
	}

	return nil
}
