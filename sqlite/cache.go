package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/specworks/refcrawl"
)

// Compile-time interface verification.
var _ refcrawl.ExtractCache = (*ExtractCache)(nil)

// ExtractCache implements refcrawl.ExtractCache using SQLite. Extract
// results are stored as JSON alongside an xxhash of the payload, so a
// row corrupted outside the crawler is detected and treated as a miss.
type ExtractCache struct {
	db *DB
}

// NewExtractCache creates a new ExtractCache.
func NewExtractCache(db *DB) *ExtractCache {
	return &ExtractCache{db: db}
}

// hashPayload computes xxHash of a payload and returns a hex string.
func hashPayload(payload string) string {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, xxhash.Sum64String(payload))
	return hex.EncodeToString(b)
}

// Get returns the cached extract for a URL along with the time it was
// stored. Returns ENOTFOUND if no valid entry exists.
func (c *ExtractCache) Get(ctx context.Context, url string) (*refcrawl.ExtractResult, time.Time, error) {
	var payload, payloadHash, storedAtStr string

	err := c.db.QueryRowContext(ctx, `
		SELECT payload, payload_hash, stored_at
		FROM extracts
		WHERE url = ?
	`, url).Scan(&payload, &payloadHash, &storedAtStr)

	if err == sql.ErrNoRows {
		return nil, time.Time{}, refcrawl.Errorf(refcrawl.ENOTFOUND, "no cached extract for %s", url)
	}
	if err != nil {
		return nil, time.Time{}, err
	}

	if hashPayload(payload) != payloadHash {
		// A corrupted row is evicted so the next Put replaces it.
		_, _ = c.db.ExecContext(ctx, `DELETE FROM extracts WHERE url = ?`, url)
		return nil, time.Time{}, refcrawl.Errorf(refcrawl.ENOTFOUND, "cached extract for %s failed integrity check", url)
	}

	storedAt, err := parseRFC3339(storedAtStr, "stored_at")
	if err != nil {
		return nil, time.Time{}, err
	}

	var res refcrawl.ExtractResult
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		return nil, time.Time{}, refcrawl.Errorf(refcrawl.EINTERNAL, "decoding cached extract: %v", err)
	}

	return &res, storedAt, nil
}

// Put stores an extract for a URL, replacing any previous entry.
func (c *ExtractCache) Put(ctx context.Context, url string, res *refcrawl.ExtractResult) error {
	if url == "" {
		return refcrawl.Errorf(refcrawl.EINVALID, "cache URL required")
	}
	if res == nil {
		return refcrawl.Errorf(refcrawl.EINVALID, "cache payload required")
	}

	payload, err := json.Marshal(res)
	if err != nil {
		return refcrawl.Errorf(refcrawl.EINTERNAL, "encoding extract: %v", err)
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO extracts (id, url, payload, payload_hash, stored_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			payload = excluded.payload,
			payload_hash = excluded.payload_hash,
			stored_at = excluded.stored_at
	`, uuid.New().String(), url, string(payload), hashPayload(string(payload)),
		time.Now().UTC().Format(time.RFC3339))

	return err
}

// Prune removes entries stored before the cutoff and returns the
// number removed.
func (c *ExtractCache) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	result, err := c.db.ExecContext(ctx, `
		DELETE FROM extracts WHERE stored_at < ?
	`, cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
