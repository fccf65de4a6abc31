package sqlite

// initSchema creates the samples table if it does not exist.
// Timestamps are stored as unix milliseconds so range scans compare integers.
func (db *DB) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS samples (
		metric TEXT NOT NULL,
		ts     INTEGER NOT NULL,
		value  REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_samples_metric_ts ON samples(metric, ts);
	`

	_, err := db.conn.Exec(schema)
	return err
}
