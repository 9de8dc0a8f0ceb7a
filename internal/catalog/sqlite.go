package catalog

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS channels (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	logo_url    TEXT NOT NULL DEFAULT '',
	stream_url  TEXT NOT NULL,
	category    TEXT NOT NULL DEFAULT '',
	transport   TEXT NOT NULL,
	drm_scheme  TEXT NOT NULL DEFAULT '',
	drm_license TEXT NOT NULL DEFAULT '',
	auth_cookie TEXT NOT NULL DEFAULT '',
	needs_proxy INTEGER NOT NULL DEFAULT 0,
	updated_at  TEXT NOT NULL
);`

// OpenDB opens (creating if needed) the catalog snapshot database.
func OpenDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("catalog db: open: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog db: schema: %w", err)
	}
	return db, nil
}

// LoadChannels reads every persisted channel. Rows with invalid categories
// are loaded as pending so the store invariant holds even against a hand-
// edited database.
func LoadChannels(db *sql.DB) ([]Channel, error) {
	rows, err := db.Query(`SELECT id, name, logo_url, stream_url, category, transport,
		drm_scheme, drm_license, auth_cookie, needs_proxy, updated_at FROM channels`)
	if err != nil {
		return nil, fmt.Errorf("catalog db: query: %w", err)
	}
	defer rows.Close()
	var out []Channel
	for rows.Next() {
		var ch Channel
		var category, transport, updatedAt string
		var needsProxy int
		if err := rows.Scan(&ch.ID, &ch.Name, &ch.LogoURL, &ch.StreamURL, &category,
			&transport, &ch.DrmScheme, &ch.DrmLicense, &ch.AuthCookie, &needsProxy, &updatedAt); err != nil {
			return nil, fmt.Errorf("catalog db: scan: %w", err)
		}
		if cat, ok := ParseCategory(category); ok {
			ch.Category = cat
		}
		ch.Transport = Transport(transport)
		if ch.Transport != TransportDASH {
			ch.Transport = TransportHLS
		}
		ch.NeedsProxy = needsProxy != 0
		if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
			ch.UpdatedAt = t
		}
		out = append(out, ch)
	}
	return out, rows.Err()
}

// UpsertChannel writes one channel with insert-or-replace-by-id semantics.
func UpsertChannel(tx *sql.Tx, ch Channel) error {
	needsProxy := 0
	if ch.NeedsProxy {
		needsProxy = 1
	}
	_, err := tx.Exec(`INSERT INTO channels
		(id, name, logo_url, stream_url, category, transport, drm_scheme, drm_license, auth_cookie, needs_proxy, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		name=excluded.name, logo_url=excluded.logo_url, stream_url=excluded.stream_url,
		category=excluded.category, transport=excluded.transport, drm_scheme=excluded.drm_scheme,
		drm_license=excluded.drm_license, auth_cookie=excluded.auth_cookie,
		needs_proxy=excluded.needs_proxy, updated_at=excluded.updated_at`,
		ch.ID, ch.Name, ch.LogoURL, ch.StreamURL, string(ch.Category), string(ch.Transport),
		ch.DrmScheme, ch.DrmLicense, ch.AuthCookie, needsProxy, ch.UpdatedAt.UTC().Format(time.RFC3339))
	return err
}

// SaveSnapshot mirrors the full channel set into the database in one
// transaction. Called only after a successful ingest, so a failed reload
// never empties the persisted catalog.
func SaveSnapshot(db *sql.DB, chs []Channel) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("catalog db: begin: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM channels`); err != nil {
		tx.Rollback()
		return fmt.Errorf("catalog db: clear: %w", err)
	}
	for _, ch := range chs {
		if err := UpsertChannel(tx, ch); err != nil {
			tx.Rollback()
			return fmt.Errorf("catalog db: upsert %s: %w", ch.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("catalog db: commit: %w", err)
	}
	return nil
}
