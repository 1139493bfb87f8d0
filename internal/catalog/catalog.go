package catalog

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Catalog is a sqlite ledger of written export files. It is observational
// only: the sampler records every file it writes but never consults the
// catalog to skip work.
type Catalog struct {
	conn *sql.DB
}

// Entry describes one written CSV export.
type Entry struct {
	Day       string    `json:"day"`
	StationID string    `json:"station_id"`
	DeviceID  string    `json:"device_id"`
	Device    string    `json:"device"`
	Metric    string    `json:"metric"`
	File      string    `json:"file"`
	RowCount  int       `json:"row_count"`
	WrittenAt time.Time `json:"written_at"`
}

const schema = `
CREATE TABLE IF NOT EXISTS exports (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	day TEXT NOT NULL,
	station_id TEXT NOT NULL,
	device_id TEXT NOT NULL,
	device TEXT NOT NULL,
	metric TEXT NOT NULL,
	file TEXT NOT NULL,
	row_count INTEGER NOT NULL,
	written_at INTEGER NOT NULL,
	UNIQUE(day, device_id, metric)
);
CREATE INDEX IF NOT EXISTS idx_exports_day ON exports(day);
`

// Open opens the catalog database at path, creating the schema if needed.
func Open(path string) (*Catalog, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate catalog: %w", err)
	}
	return &Catalog{conn: conn}, nil
}

func (c *Catalog) Close() error {
	return c.conn.Close()
}

// Record upserts one export row. Re-sampling the same (day, device, metric)
// triple replaces the previous row, mirroring the file overwrite on disk.
func (c *Catalog) Record(entry Entry) error {
	_, err := c.conn.Exec(`
		INSERT OR REPLACE INTO exports (day, station_id, device_id, device, metric, file, row_count, written_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Day, entry.StationID, entry.DeviceID, entry.Device, entry.Metric,
		entry.File, entry.RowCount, entry.WrittenAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("record export: %w", err)
	}
	return nil
}

// Recent returns the latest entries, newest first. A non-positive limit
// selects a default page of 50.
func (c *Catalog) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := c.conn.Query(`
		SELECT day, station_id, device_id, device, metric, file, row_count, written_at
		FROM exports
		ORDER BY written_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query exports: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var written int64
		if err := rows.Scan(&entry.Day, &entry.StationID, &entry.DeviceID, &entry.Device,
			&entry.Metric, &entry.File, &entry.RowCount, &written); err != nil {
			return nil, fmt.Errorf("scan export: %w", err)
		}
		entry.WrittenAt = time.UnixMilli(written)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exports: %w", err)
	}
	return entries, nil
}
