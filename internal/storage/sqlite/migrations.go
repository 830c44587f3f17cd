package sqlite

// schema contains the database schema DDL. Creation is idempotent so it is
// safe to run on every startup.
const schema = `
-- Capacity samples, append-only
CREATE TABLE IF NOT EXISTS capacity (
    timestamp TEXT NOT NULL,
    location_id INTEGER NOT NULL,
    location_name TEXT NOT NULL,
    capacity INTEGER NOT NULL,
    PRIMARY KEY (timestamp, location_id)
);
CREATE INDEX IF NOT EXISTS idx_capacity_location_timestamp ON capacity(location_id, timestamp);
`
