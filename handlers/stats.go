package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// StatsSnapshot is the aggregate view of the transfer log returned by
// /api/stats.
type StatsSnapshot struct {
	TotalTransfers int64 `json:"total_transfers"`
	TotalBytes     int64 `json:"total_bytes"`
}

var transferDB struct {
	mu sync.Mutex
	db *sql.DB
}

// InitStats opens (creating if necessary) the transfer-statistics database
// in statsDir. A failure disables statistics for the life of the process,
// since serving files is never held hostage by the stats store, and is logged so
// permission problems surface at startup rather than at the first transfer.
func InitStats(statsDir string) {
	path := filepath.Join(statsDir, "staticd.db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		log.Printf("stats: could not open %s: %v", path, err)
		return
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS transfers (
			id    INTEGER PRIMARY KEY AUTOINCREMENT,
			path  TEXT    NOT NULL,
			bytes INTEGER NOT NULL,
			at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		log.Printf("stats: could not create schema in %s: %v", path, err)
		db.Close()
		return
	}

	transferDB.mu.Lock()
	transferDB.db = db
	transferDB.mu.Unlock()
}

// CloseStats closes the statistics database. Used by tests; the server lets
// the process exit reclaim the handle.
func CloseStats() {
	transferDB.mu.Lock()
	defer transferDB.mu.Unlock()
	if transferDB.db != nil {
		transferDB.db.Close()
		transferDB.db = nil
	}
}

// RecordTransfer logs one served file of bytesSent bytes. The insert runs
// asynchronously so the response path never blocks on the database.
func RecordTransfer(urlPath string, bytesSent int64) {
	go insertTransfer(urlPath, bytesSent)
}

// insertTransfer does the actual write; a nil database (stats disabled) is a
// silent no-op.
func insertTransfer(urlPath string, bytesSent int64) {
	transferDB.mu.Lock()
	db := transferDB.db
	transferDB.mu.Unlock()
	if db == nil {
		return
	}
	if _, err := db.Exec(`INSERT INTO transfers (path, bytes) VALUES (?, ?)`, urlPath, bytesSent); err != nil {
		log.Printf("stats: %v", err)
	}
}

// GetStats returns a point-in-time aggregate of the transfer log.
func GetStats() StatsSnapshot {
	transferDB.mu.Lock()
	db := transferDB.db
	transferDB.mu.Unlock()

	var snap StatsSnapshot
	if db == nil {
		return snap
	}
	row := db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(bytes), 0) FROM transfers`)
	if err := row.Scan(&snap.TotalTransfers, &snap.TotalBytes); err != nil {
		log.Printf("stats: %v", err)
	}
	return snap
}

// StatsHandler serves the aggregate transfer statistics as JSON.
func StatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(GetStats()); err != nil {
			log.Printf("stats: encode: %v", err)
		}
	}
}
