package journal

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema creates the session table. Times are stored as Unix nanoseconds so
// both drivers read them back identically.
const Schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    client_ip TEXT NOT NULL,
    client_port INTEGER NOT NULL,
    host TEXT NOT NULL,
    port INTEGER NOT NULL,
    request_line TEXT NOT NULL,
    status INTEGER NOT NULL,
    bytes_up INTEGER NOT NULL,
    bytes_down INTEGER NOT NULL,
    outcome TEXT NOT NULL,
    started_at INTEGER NOT NULL,
    ended_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);
CREATE INDEX IF NOT EXISTS idx_sessions_host ON sessions(host);
`

const insertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

const getSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

const insertSession = `
INSERT INTO sessions (
    id, session_id, client_ip, client_port, host, port, request_line,
    status, bytes_up, bytes_down, outcome, started_at, ended_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const selectRecent = `
SELECT id, session_id, client_ip, client_port, host, port, request_line,
       status, bytes_up, bytes_down, outcome, started_at, ended_at
FROM sessions
ORDER BY ended_at DESC, id
LIMIT ?
`
