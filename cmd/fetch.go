package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/harmonyedit/assetcat/internal/utils"
	"github.com/harmonyedit/assetcat/pkg/sources"
	"github.com/harmonyedit/assetcat/pkg/sources/library"
	"github.com/harmonyedit/assetcat/pkg/sources/projectfile"
	"github.com/harmonyedit/assetcat/pkg/sources/storefront"
	"github.com/harmonyedit/assetcat/pkg/storage"
	"github.com/harmonyedit/assetcat/pkg/webapi"
)

// fetchCmd implements: assetcat fetch
//
//	--source string    Comma-less single source name or "all" (default)
//	--project string   Also ingest assets referenced by a project file
//	--dry-run          Fetch and report without touching the database
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch asset metadata from configured sources into the cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return fmt.Errorf("unknown command: '%s'. See 'assetcat fetch --help'", args[0])
		}

		only, _ := cmd.Flags().GetString("source")
		projectPath, _ := cmd.Flags().GetString("project")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		proxy, _ := rootCmd.PersistentFlags().GetString("proxy")

		client, err := webapi.New(proxy)
		if err != nil {
			return err
		}

		var list []sources.Source

		libURL := viper.GetString("library.url")
		libToken := viper.GetString("library.token")
		if libURL != "" {
			list = append(list, library.New(libURL, libToken, client))
		} else {
			utils.Log.Info("Skipping library: url not found in config.")
		}

		sfURL := viper.GetString("storefront.url")
		if sfURL != "" {
			list = append(list, storefront.New(sfURL, client))
		} else {
			utils.Log.Info("Skipping storefront: url not found in config.")
		}

		if projectPath != "" {
			list = append(list, projectfile.New(projectPath))
		}

		if only != "" && only != "all" {
			var kept []sources.Source
			for _, src := range list {
				if src.Name() == only {
					kept = append(kept, src)
				}
			}
			if len(kept) == 0 {
				return fmt.Errorf("source %q is not configured", only)
			}
			list = kept
		}
		if len(list) == 0 {
			return errors.New("no sources configured, nothing to fetch")
		}

		if dryRun {
			return fetchDryRun(cmd, list)
		}

		dbPath, _ := rootCmd.PersistentFlags().GetString("dbpath")
		lock, err := utils.NewDBLock(dbPath)
		if err != nil {
			return err
		}
		if err := lock.Lock(); err != nil {
			return err
		}
		defer lock.Unlock()

		db, _, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		firstRun := isEmptyCache(cmd, db)

		for _, src := range list {
			if err := fetchOne(cmd, db, src, firstRun); err != nil {
				utils.Log.Errorf("Fetch from %s failed: %v", src.Name(), err)
			}
		}
		return nil
	},
}

func fetchOne(cmd *cobra.Command, db *storage.DB, src sources.Source, firstRun bool) error {
	ctx := cmd.Context()

	roots, err := src.FetchCategories(ctx)
	if err != nil {
		return err
	}
	if roots != nil {
		if err := db.ReplaceCategories(ctx, src.Name(), roots); err != nil {
			return err
		}
	}

	list, err := src.FetchAssets(ctx)
	if err != nil {
		return err
	}

	changes, err := db.UpsertAssets(ctx, src.Name(), list)
	if err != nil {
		if errors.Is(err, storage.ErrWipeAborted) {
			utils.Log.Warnf("%s returned no assets but the cache holds many; refusing to wipe. Use a fresh --dbpath if this is intentional.", src.Name())
			return nil
		}
		return err
	}

	utils.Log.Infof("%s: %d assets, %d changes", src.Name(), len(list), len(changes))
	if firstRun {
		// Everything is "added" on the first run; listing it all is noise.
		return nil
	}
	for _, c := range changes {
		fmt.Printf("%-8s %s  %s (%s)\n", c.ChangeType, c.Source, c.Name, c.AssetID)
	}
	return nil
}

func fetchDryRun(cmd *cobra.Command, list []sources.Source) error {
	ctx := cmd.Context()
	for _, src := range list {
		fetched, err := src.FetchAssets(ctx)
		if err != nil {
			utils.Log.Errorf("Fetch from %s failed: %v", src.Name(), err)
			continue
		}
		fmt.Printf("%s: %d assets\n", src.Name(), len(fetched))
	}
	return nil
}

// isEmptyCache reports whether the cache holds no assets yet.
func isEmptyCache(cmd *cobra.Command, db *storage.DB) bool {
	cached, err := db.LoadAssets(cmd.Context(), "")
	return err == nil && len(cached) == 0
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().String("source", "all", "Fetch only the named source (library, storefront, project)")
	fetchCmd.Flags().String("project", "", "Path to a project file whose assets should be ingested")
	fetchCmd.Flags().Bool("dry-run", false, "Fetch and report counts without writing to the database")
}
