package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS exchanges (
    id                   TEXT PRIMARY KEY,
    created_at           TEXT NOT NULL,
    model                TEXT NOT NULL,
    template             TEXT NOT NULL,
    prompt_tokens        INTEGER NOT NULL DEFAULT 0,
    completion_tokens    INTEGER NOT NULL DEFAULT 0,
    cost                 REAL NOT NULL DEFAULT 0,
    currency             TEXT NOT NULL,
    duration_ms          INTEGER NOT NULL DEFAULT 0,
    archive_file         TEXT,
    input_preview        TEXT
);

CREATE INDEX IF NOT EXISTS idx_exchanges_created ON exchanges(created_at);
CREATE INDEX IF NOT EXISTS idx_exchanges_model ON exchanges(model);
`
