package journal

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema creates the journal tables. Times are unix milliseconds so both
// drivers compare them the same way.
const Schema = `
CREATE TABLE IF NOT EXISTS route_journal (
    id TEXT PRIMARY KEY,
    request_id TEXT NOT NULL,
    route_id TEXT NOT NULL,

    format TEXT NOT NULL,
    start_kind TEXT NOT NULL,
    end_kind TEXT NOT NULL,

    status TEXT NOT NULL,
    engine_code INTEGER NOT NULL,
    cached BOOLEAN NOT NULL,
    error TEXT,

    latency_ms INTEGER NOT NULL,
    recorded_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_route_journal_recorded_at ON route_journal(recorded_at);
CREATE INDEX IF NOT EXISTS idx_route_journal_status ON route_journal(status);
CREATE INDEX IF NOT EXISTS idx_route_journal_route_id ON route_journal(route_id);
`

// InsertSchemaVersion records the schema version once.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion returns the newest applied schema version.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
