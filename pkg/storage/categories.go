package storage

import (
	"context"

	"github.com/harmonyedit/assetcat/pkg/catalog"
)

// ReplaceCategories swaps the cached category snapshot for one source.
// The tree is flattened into (parent_id, position) rows; LoadCategories
// rebuilds it in the original order.
func (d *DB) ReplaceCategories(ctx context.Context, source string, roots []catalog.Category) (err error) {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM categories WHERE source = ?", source); err != nil {
		return err
	}

	var insert func(parentID string, cats []catalog.Category) error
	insert = func(parentID string, cats []catalog.Category) error {
		for i, c := range cats {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO categories(source, id, name, parent_id, position) VALUES(?,?,?,?,?)",
				source, c.ID, c.Name, parentID, i); err != nil {
				return err
			}
			if err := insert(c.ID, c.Children); err != nil {
				return err
			}
		}
		return nil
	}
	if err = insert("", roots); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadCategories rebuilds the cached category forest across all sources,
// sources in name order, siblings in stored position order.
func (d *DB) LoadCategories(ctx context.Context) ([]catalog.Category, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT source, id, name, parent_id FROM categories ORDER BY source, parent_id, position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type row struct {
		source, id, name, parentID string
	}
	var all []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.source, &r.id, &r.name, &r.parentID); err != nil {
			return nil, err
		}
		all = append(all, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	children := make(map[string][]row)
	for _, r := range all {
		children[r.parentID] = append(children[r.parentID], r)
	}

	var build func(r row) catalog.Category
	build = func(r row) catalog.Category {
		c := catalog.Category{ID: r.id, Name: r.name}
		for _, child := range children[r.id] {
			c.Children = append(c.Children, build(child))
		}
		return c
	}

	var roots []catalog.Category
	for _, r := range children[""] {
		roots = append(roots, build(r))
	}
	return roots, nil
}
