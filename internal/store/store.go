// Package store keeps privacy-conscious visitor counts and a log of dataset
// renders in SQLite. Visitor IPs are only ever stored hashed.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS visitors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_ip TEXT NOT NULL,
	user_agent TEXT,
	path TEXT,
	ts INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS visitors_ts ON visitors(ts);
CREATE TABLE IF NOT EXISTS renders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	dataset TEXT NOT NULL,
	records INTEGER NOT NULL,
	rendered INTEGER NOT NULL,
	dropped INTEGER NOT NULL,
	fetch_failed INTEGER NOT NULL,
	ts INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS renders_dataset_ts ON renders(dataset, ts);
`

// Visitor is one tracked page view.
type Visitor struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// Render is one dataset fetch+render cycle.
type Render struct {
	Dataset     string
	Records     int
	Rendered    int
	Dropped     int
	FetchFailed bool
}

// DatasetStats summarises the renders of one dataset.
type DatasetStats struct {
	Dataset       string    `json:"dataset"`
	Renders       int64     `json:"renders"`
	FetchFailures int64     `json:"fetch_failures"`
	LastRecords   int       `json:"last_records"`
	LastRendered  int       `json:"last_rendered"`
	LastDropped   int       `json:"last_dropped"`
	LastRenderAt  time.Time `json:"last_render_at"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalVisitors    int64          `json:"total_visitors"`
	UniqueVisitors   int64          `json:"unique_visitors"`
	VisitorsToday    int64          `json:"visitors_today"`
	VisitorsThisWeek int64          `json:"visitors_this_week"`
	RecentVisitors   []Visitor      `json:"recent_visitors"`
	Datasets         []DatasetStats `json:"datasets"`
}

// Store wraps the SQLite database.
type Store struct {
	db   *sql.DB
	salt string
	now  func() time.Time
}

// Open opens (creating if needed) the database at path. salt is mixed into
// every IP hash; use a per-process random value so hashes cannot be
// reversed with a lookup table.
func Open(ctx context.Context, path, salt string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db, salt: salt, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// HashIP returns a short salted hash of ip, stable for this store.
func (s *Store) HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + s.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// RecordVisit stores one page view.
func (s *Store) RecordVisit(ctx context.Context, ip, userAgent, path string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO visitors (hashed_ip, user_agent, path, ts) VALUES (?, ?, ?, ?)`,
		s.HashIP(ip), userAgent, path, s.now().Unix())
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

// RecordRender stores one render cycle.
func (s *Store) RecordRender(ctx context.Context, r Render) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO renders (dataset, records, rendered, dropped, fetch_failed, ts) VALUES (?, ?, ?, ?, ?, ?)`,
		r.Dataset, r.Records, r.Rendered, r.Dropped, r.FetchFailed, s.now().Unix())
	if err != nil {
		return fmt.Errorf("record render: %w", err)
	}
	return nil
}

// Cleanup deletes visitor rows older than retention and returns how many
// were removed.
func (s *Store) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := s.now().Add(-retention).Unix()
	res, err := s.db.ExecContext(ctx, `DELETE FROM visitors WHERE ts < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup visitors: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Stats gathers the dashboard summary.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats := &Stats{}
	counts := []struct {
		query string
		args  []any
		dst   *int64
	}{
		{`SELECT COUNT(*) FROM visitors`, nil, &stats.TotalVisitors},
		{`SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil, &stats.UniqueVisitors},
		{`SELECT COUNT(*) FROM visitors WHERE ts >= ?`, []any{startOfDay.Unix()}, &stats.VisitorsToday},
		{`SELECT COUNT(*) FROM visitors WHERE ts >= ?`, []any{now.Add(-7 * 24 * time.Hour).Unix()}, &stats.VisitorsThisWeek},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
	}

	recent, err := s.RecentVisitors(ctx, 50)
	if err != nil {
		return nil, err
	}
	stats.RecentVisitors = recent

	datasets, err := s.datasetStats(ctx)
	if err != nil {
		return nil, err
	}
	stats.Datasets = datasets
	return stats, nil
}

// RecentVisitors returns up to limit visits, newest first.
func (s *Store) RecentVisitors(ctx context.Context, limit int) ([]Visitor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), ts
		FROM visitors
		ORDER BY ts DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent visitors: %w", err)
	}
	defer rows.Close()

	var visitors []Visitor
	for rows.Next() {
		var (
			v  Visitor
			ts int64
		)
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			return nil, fmt.Errorf("scan visitor: %w", err)
		}
		v.Timestamp = time.Unix(ts, 0)
		visitors = append(visitors, v)
	}
	return visitors, rows.Err()
}

func (s *Store) datasetStats(ctx context.Context) ([]DatasetStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.dataset, agg.renders, agg.failures, r.records, r.rendered, r.dropped, r.ts
		FROM renders r
		JOIN (
			SELECT dataset, COUNT(*) AS renders, SUM(fetch_failed) AS failures, MAX(id) AS last_id
			FROM renders
			GROUP BY dataset
		) agg ON agg.last_id = r.id
		ORDER BY r.dataset`)
	if err != nil {
		return nil, fmt.Errorf("dataset stats: %w", err)
	}
	defer rows.Close()

	var out []DatasetStats
	for rows.Next() {
		var (
			d  DatasetStats
			ts int64
		)
		if err := rows.Scan(&d.Dataset, &d.Renders, &d.FetchFailures, &d.LastRecords, &d.LastRendered, &d.LastDropped, &ts); err != nil {
			return nil, fmt.Errorf("scan dataset stats: %w", err)
		}
		d.LastRenderAt = time.Unix(ts, 0)
		out = append(out, d)
	}
	return out, rows.Err()
}
