package sqlite

const schemaSQL = `
CREATE TABLE IF NOT EXISTS cache_entries (
	key       TEXT PRIMARY KEY,
	value     BLOB NOT NULL,
	stored_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cache_entries_stored_at ON cache_entries(stored_at);
`
