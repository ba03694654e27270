package domain

import "time"

// HistoryEntry is one executed query in a caller's history, tagged with a
// content hash of its result set. Written once when a strategy opts to
// record it; immutable after that. Overlap Control is the only component
// that reads or writes history.
type HistoryEntry struct {
	ID            string    `json:"id"`
	Caller        string    `json:"caller"`
	QueryHash     string    `json:"query_hash"`
	QueryText     string    `json:"query_text"`
	ResultSetHash *string   `json:"result_set_hash,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
