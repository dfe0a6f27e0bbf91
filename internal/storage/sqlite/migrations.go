package sqlite

import "database/sql"

// schema holds the session table. The CHECK constraint pins it to a single row so the
// upsert in Save always replaces the previous login.
const schema = `
CREATE TABLE IF NOT EXISTS session (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    token TEXT NOT NULL,
    token_type TEXT NOT NULL,
    user_json TEXT NOT NULL,
    saved_at INTEGER NOT NULL
);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
