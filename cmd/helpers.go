package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harmonyedit/assetcat/internal/utils"
	"github.com/harmonyedit/assetcat/pkg/filter"
	"github.com/harmonyedit/assetcat/pkg/storage"
)

// openDB resolves the --dbpath flag and opens the SQLite cache, creating
// the parent directory on first use.
func openDB() (*storage.DB, string, error) {
	dbPath, _ := rootCmd.PersistentFlags().GetString("dbpath")
	absPath, err := utils.GetAbsDBPath(dbPath)
	if err != nil {
		return nil, "", err
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, "", err
	}
	db, err := storage.Open(absPath)
	if err != nil {
		return nil, "", err
	}
	return db, absPath, nil
}

// loadView builds a filter view over the full cached snapshot.
func loadView(ctx context.Context, db *storage.DB) (*filter.View, error) {
	roots, err := db.LoadCategories(ctx)
	if err != nil {
		return nil, err
	}
	list, err := db.LoadAssets(ctx, "")
	if err != nil {
		return nil, err
	}
	v := filter.NewView()
	if err := v.ReplaceCatalog(roots); err != nil {
		return nil, err
	}
	v.ReplaceAssets(list)
	return v, nil
}

// addFilterFlags registers the shared filter flags used by list and facets.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("category", "c", "", "Scope to a category id (includes descendants)")
	cmd.Flags().String("series", "", "Filter by series (id, name, or series:unassigned)")
	cmd.Flags().StringSlice("size", nil, "Filter by size category (repeatable; unassigned for untagged)")
	cmd.Flags().StringSlice("tag", nil, "Filter by tag (repeatable, AND semantics)")
	cmd.Flags().StringP("search", "s", "", "Free-text search over name, type, series and tags")
	cmd.Flags().String("dir", "", "Scope to a directory subtree (ignored while searching)")
	cmd.Flags().String("facet-search", "", "Narrow the tag option list")
	cmd.Flags().Bool("no-session", false, "Ignore and don't update the persisted filter session")
}

// applyFilterFlags drives a view from the shared filter flags. Flags the
// user left unset keep whatever the restored session put there.
func applyFilterFlags(cmd *cobra.Command, v *filter.View) {
	if cmd.Flags().Changed("category") {
		id, _ := cmd.Flags().GetString("category")
		v.SelectCategory(id)
	}
	if cmd.Flags().Changed("dir") {
		dir, _ := cmd.Flags().GetString("dir")
		v.SetDir(dir)
	}
	if cmd.Flags().Changed("search") {
		q, _ := cmd.Flags().GetString("search")
		v.SetQuery(q)
	}
	if cmd.Flags().Changed("facet-search") {
		q, _ := cmd.Flags().GetString("facet-search")
		v.SetOptionQuery(q)
	}
	if cmd.Flags().Changed("series") {
		series, _ := cmd.Flags().GetString("series")
		v.SelectSeries(series)
	}
	if cmd.Flags().Changed("size") {
		sizes, _ := cmd.Flags().GetStringSlice("size")
		for _, s := range sizes {
			v.ToggleSize(s)
		}
	}
	if cmd.Flags().Changed("tag") {
		tags, _ := cmd.Flags().GetStringSlice("tag")
		for _, t := range tags {
			v.ToggleTag(t)
		}
	}
}

// restoreSession applies the persisted filter session unless --no-session.
func restoreSession(ctx context.Context, cmd *cobra.Command, db *storage.DB, v *filter.View) {
	if skip, _ := cmd.Flags().GetBool("no-session"); skip {
		return
	}
	sess, err := storage.NewSessionStore(db, storage.DefaultSessionKey).Load(ctx)
	if err != nil {
		utils.Log.Warnf("Could not restore filter session: %v", err)
		return
	}
	if !sess.IsZero() {
		v.ApplySession(sess)
	}
}

// persistSession saves the view's settled filter state unless --no-session.
func persistSession(ctx context.Context, cmd *cobra.Command, db *storage.DB, v *filter.View) {
	if skip, _ := cmd.Flags().GetBool("no-session"); skip {
		return
	}
	if err := storage.NewSessionStore(db, storage.DefaultSessionKey).Save(ctx, v.Session()); err != nil {
		utils.Log.Warnf("Could not persist filter session: %v", err)
	}
}
