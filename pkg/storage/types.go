package storage

import "time"

// Change is one journal entry recording how a fetch run altered the
// cached catalog.
type Change struct {
	OccurredAt time.Time `json:"occurred_at"`
	Source     string    `json:"source"`
	AssetID    string    `json:"asset_id"`
	Name       string    `json:"name"`
	ChangeType string    `json:"change_type"` // added | updated | removed
}

// TypeCount is one row of the per-source, per-type asset statistics.
type TypeCount struct {
	Source string `json:"source"`
	Type   string `json:"type"`
	Count  int    `json:"count"`
}
