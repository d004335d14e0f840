package storage

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/harmonyedit/assetcat/pkg/assets"
)

// pathSep joins category-path ids for storage; ids never contain it.
const pathSep = "\x1f"

// fingerprint condenses the mutable fields of an asset so updates can be
// detected without comparing column by column.
func fingerprint(a assets.Asset) string {
	return strings.Join([]string{
		a.Name, a.Type, a.CategoryID, strings.Join(a.CategoryPath, pathSep),
		a.SeriesID, a.SeriesName, a.SizeCategory,
		strings.Join(a.Tags, pathSep), strings.Join(a.TagIDs, pathSep),
		a.Dir, a.Provider, a.PreviewURL, a.DownloadURL,
		strconv.FormatInt(a.FileSize, 10),
	}, "\x1e")
}

// UpsertAssets reconciles one source's fetched snapshot into the cache
// and journals the differences. Rows untouched by the current run are
// removed at the end (they vanished from the source); an empty fetch
// against a well-populated cache aborts with ErrWipeAborted instead.
func (d *DB) UpsertAssets(ctx context.Context, source string, list []assets.Asset) (changes []Change, err error) {
	now := time.Now().UTC()
	runID := now.UnixNano()

	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Tags first: two result sets must not be open on the tx at once.
	tagRows, err := loadTags(ctx, tx, source)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]string) // id -> fingerprint
	rows, err := tx.QueryContext(ctx, `
		SELECT a.id, a.name, a.type, a.category_id, a.category_path,
		       a.series_id, a.series_name, a.size_category,
		       a.dir, a.provider, a.preview_url, a.download_url, a.file_size
		FROM assets a WHERE a.source = ?`, source)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var a assets.Asset
		var path string
		if err = rows.Scan(&a.ID, &a.Name, &a.Type, &a.CategoryID, &path,
			&a.SeriesID, &a.SeriesName, &a.SizeCategory,
			&a.Dir, &a.Provider, &a.PreviewURL, &a.DownloadURL, &a.FileSize); err != nil {
			rows.Close()
			return nil, err
		}
		a.CategoryPath = splitPath(path)
		a.TagIDs, a.Tags = normalizeTags(tagRows[a.ID])
		existing[a.ID] = fingerprint(a)
	}
	if err = rows.Close(); err != nil {
		return nil, err
	}

	if len(list) == 0 && len(existing) > wipeGuardThreshold {
		return nil, ErrWipeAborted
	}

	for _, a := range list {
		fp, found := existing[a.ID]
		next := fingerprint(a)
		switch {
		case !found:
			if _, err = tx.ExecContext(ctx, `
				INSERT INTO assets(source, id, name, type, category_id, category_path,
					series_id, series_name, size_category, dir, provider,
					preview_url, download_url, file_size, run_id)
				VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
				source, a.ID, a.Name, a.Type, a.CategoryID, strings.Join(a.CategoryPath, pathSep),
				a.SeriesID, a.SeriesName, a.SizeCategory, a.Dir, a.Provider,
				a.PreviewURL, a.DownloadURL, a.FileSize, runID); err != nil {
				return nil, err
			}
			if err = writeTags(ctx, tx, source, a); err != nil {
				return nil, err
			}
			changes = append(changes, Change{OccurredAt: now, Source: source, AssetID: a.ID, Name: a.Name, ChangeType: "added"})
		case fp != next:
			if _, err = tx.ExecContext(ctx, `
				UPDATE assets SET name=?, type=?, category_id=?, category_path=?,
					series_id=?, series_name=?, size_category=?, dir=?, provider=?,
					preview_url=?, download_url=?, file_size=?, run_id=?,
					last_seen_at=CURRENT_TIMESTAMP
				WHERE source=? AND id=?`,
				a.Name, a.Type, a.CategoryID, strings.Join(a.CategoryPath, pathSep),
				a.SeriesID, a.SeriesName, a.SizeCategory, a.Dir, a.Provider,
				a.PreviewURL, a.DownloadURL, a.FileSize, runID, source, a.ID); err != nil {
				return nil, err
			}
			if _, err = tx.ExecContext(ctx, "DELETE FROM asset_tags WHERE source=? AND asset_id=?", source, a.ID); err != nil {
				return nil, err
			}
			if err = writeTags(ctx, tx, source, a); err != nil {
				return nil, err
			}
			changes = append(changes, Change{OccurredAt: now, Source: source, AssetID: a.ID, Name: a.Name, ChangeType: "updated"})
		default:
			if _, err = tx.ExecContext(ctx,
				"UPDATE assets SET run_id=?, last_seen_at=CURRENT_TIMESTAMP WHERE source=? AND id=?",
				runID, source, a.ID); err != nil {
				return nil, err
			}
		}
	}

	// Sweep rows the current run never touched.
	stale, err := tx.QueryContext(ctx,
		"SELECT id, name FROM assets WHERE source = ? AND run_id != ?", source, runID)
	if err != nil {
		return nil, err
	}
	type gone struct{ id, name string }
	var removed []gone
	for stale.Next() {
		var g gone
		if err = stale.Scan(&g.id, &g.name); err != nil {
			stale.Close()
			return nil, err
		}
		removed = append(removed, g)
	}
	if err = stale.Close(); err != nil {
		return nil, err
	}
	for _, g := range removed {
		if _, err = tx.ExecContext(ctx, "DELETE FROM assets WHERE source=? AND id=?", source, g.id); err != nil {
			return nil, err
		}
		if _, err = tx.ExecContext(ctx, "DELETE FROM asset_tags WHERE source=? AND asset_id=?", source, g.id); err != nil {
			return nil, err
		}
		changes = append(changes, Change{OccurredAt: now, Source: source, AssetID: g.id, Name: g.name, ChangeType: "removed"})
	}

	for _, c := range changes {
		if _, err = tx.ExecContext(ctx,
			"INSERT INTO catalog_changes(source, asset_id, name, change_type) VALUES(?,?,?,?)",
			c.Source, c.AssetID, c.Name, c.ChangeType); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return changes, nil
}

type tagPair struct {
	ids   []string
	names []string
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func loadTags(ctx context.Context, q queryer, source string) (map[string]tagPair, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT asset_id, tag_id, tag_name FROM asset_tags WHERE source = ? ORDER BY asset_id, position", source)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]tagPair)
	for rows.Next() {
		var assetID, tagID, tagName string
		if err := rows.Scan(&assetID, &tagID, &tagName); err != nil {
			return nil, err
		}
		p := out[assetID]
		p.ids = append(p.ids, tagID)
		p.names = append(p.names, tagName)
		out[assetID] = p
	}
	return out, rows.Err()
}

func writeTags(ctx context.Context, tx *sql.Tx, source string, a assets.Asset) error {
	// Parallel arrays are preserved positionally; a record with only one
	// of the two lists stores empty strings for the other side.
	n := len(a.Tags)
	if len(a.TagIDs) > n {
		n = len(a.TagIDs)
	}
	for i := 0; i < n; i++ {
		var id, name string
		if i < len(a.TagIDs) {
			id = a.TagIDs[i]
		}
		if i < len(a.Tags) {
			name = a.Tags[i]
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO asset_tags(source, asset_id, position, tag_id, tag_name) VALUES(?,?,?,?,?)",
			source, a.ID, i, id, name); err != nil {
			return err
		}
	}
	return nil
}

func splitPath(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, pathSep)
}

// LoadAssets reads the cached asset snapshot. source narrows to one
// source; empty means all.
func (d *DB) LoadAssets(ctx context.Context, source string) ([]assets.Asset, error) {
	where := ""
	var args []any
	if source != "" {
		where = " WHERE source = ?"
		args = append(args, source)
	}
	rows, err := d.sql.QueryContext(ctx, `
		SELECT source, id, name, type, category_id, category_path,
		       series_id, series_name, size_category, dir, provider,
		       preview_url, download_url, file_size
		FROM assets`+where+" ORDER BY source, name, id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []assets.Asset
	for rows.Next() {
		var a assets.Asset
		var path string
		if err := rows.Scan(&a.Source, &a.ID, &a.Name, &a.Type, &a.CategoryID, &path,
			&a.SeriesID, &a.SeriesName, &a.SizeCategory, &a.Dir, &a.Provider,
			&a.PreviewURL, &a.DownloadURL, &a.FileSize); err != nil {
			return nil, err
		}
		a.CategoryPath = splitPath(path)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Attach tags per source to keep (source, asset_id) keys unambiguous.
	bySource := make(map[string]map[string]tagPair)
	for i, a := range out {
		tags, ok := bySource[a.Source]
		if !ok {
			tags, err = loadTags(ctx, d.sql, a.Source)
			if err != nil {
				return nil, err
			}
			bySource[a.Source] = tags
		}
		if p, ok := tags[a.ID]; ok {
			out[i].TagIDs, out[i].Tags = normalizeTags(p)
		}
	}
	return out, nil
}

// normalizeTags trims the all-empty sides so a name-only record round-
// trips to a name-only record instead of growing a parallel id list of
// empty strings.
func normalizeTags(p tagPair) (ids, names []string) {
	allEmpty := func(ss []string) bool {
		for _, s := range ss {
			if s != "" {
				return false
			}
		}
		return true
	}
	ids, names = p.ids, p.names
	if allEmpty(ids) {
		ids = nil
	}
	if allEmpty(names) {
		names = nil
	}
	return ids, names
}

// ListChanges returns the most recent journal entries, newest first.
func (d *DB) ListChanges(ctx context.Context, limit int) ([]Change, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.sql.QueryContext(ctx, `
		SELECT occurred_at, source, asset_id, name, change_type
		FROM catalog_changes ORDER BY occurred_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Change
	for rows.Next() {
		var c Change
		var occurredAt string
		if err := rows.Scan(&occurredAt, &c.Source, &c.AssetID, &c.Name, &c.ChangeType); err != nil {
			return nil, err
		}
		// SQLite's CURRENT_TIMESTAMP format first, RFC3339 as fallback.
		if t, perr := time.Parse("2006-01-02 15:04:05", occurredAt); perr == nil {
			c.OccurredAt = t
		} else if t, perr := time.Parse(time.RFC3339, occurredAt); perr == nil {
			c.OccurredAt = t
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Stats returns asset counts grouped by source and type.
func (d *DB) Stats(ctx context.Context) ([]TypeCount, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT source, type, COUNT(*) FROM assets GROUP BY source, type ORDER BY source, type")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TypeCount
	for rows.Next() {
		var tc TypeCount
		if err := rows.Scan(&tc.Source, &tc.Type, &tc.Count); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}
