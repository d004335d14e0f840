package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harmonyedit/assetcat/internal/utils"
	"github.com/harmonyedit/assetcat/pkg/importer"
	"github.com/harmonyedit/assetcat/pkg/storage"
)

// importCmd scans a local directory tree and ingests the recognized
// asset files into the cache under the "import" source.
var importCmd = &cobra.Command{
	Use:   "import <directory>",
	Short: "Import local asset files into the cache",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rulesPath, _ := cmd.Flags().GetString("rules")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		rules := importer.DefaultRules()
		if rulesPath != "" {
			loaded, err := importer.LoadRules(rulesPath)
			if err != nil {
				return err
			}
			rules = loaded
		}

		res, err := importer.Import(args[0], rules)
		if err != nil {
			return err
		}
		utils.Log.Infof("Scanned %s: %d assets, %d skipped, %d duplicates",
			args[0], len(res.Assets), res.Skipped, res.Dupes)

		if dryRun {
			for _, a := range res.Assets {
				fmt.Printf("%-10s %-4s %s\n", a.Type, a.SizeCategory, a.DownloadURL)
			}
			return nil
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

		changes, err := db.UpsertAssets(cmd.Context(), "import", res.Assets)
		if err != nil {
			if errors.Is(err, storage.ErrWipeAborted) {
				utils.Log.Warn("Import found no assets but the cache holds many; refusing to wipe.")
				return nil
			}
			return err
		}
		utils.Log.Infof("import: %d assets, %d changes", len(res.Assets), len(changes))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().String("rules", "", "YAML file overriding type extensions and size buckets")
	importCmd.Flags().Bool("dry-run", false, "Scan and classify without writing to the database")
}
