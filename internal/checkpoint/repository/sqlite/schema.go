package sqlite

const schema = `
CREATE TABLE IF NOT EXISTS checkpoints (
	thread_id  TEXT PRIMARY KEY,
	state      TEXT NOT NULL,
	version    INTEGER NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_checkpoints_updated_at ON checkpoints(updated_at);
`

const (
	selectVersion = `SELECT version FROM checkpoints WHERE thread_id = ?`
	insertState   = `INSERT INTO checkpoints (thread_id, state, version, updated_at) VALUES (?, ?, ?, ?)`
	updateState   = `UPDATE checkpoints SET state = ?, version = ?, updated_at = ? WHERE thread_id = ? AND version = ?`
	selectState   = `SELECT state, version FROM checkpoints WHERE thread_id = ?`
	deleteState   = `DELETE FROM checkpoints WHERE thread_id = ?`
)
