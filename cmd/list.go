package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/harmonyedit/assetcat/pkg/assets"
)

// listCmd prints the filtered asset listing. Filters restore from the
// persisted session, then any flags given override their facet.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached assets through the filter pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		v, err := loadView(cmd.Context(), db)
		if err != nil {
			return err
		}
		restoreSession(cmd.Context(), cmd, db, v)
		applyFilterFlags(cmd, v)

		list := v.Assets()
		persistSession(cmd.Context(), cmd, db, v)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(list)
		}

		outputFlags, _ := cmd.Flags().GetString("output")
		delimiter, _ := cmd.Flags().GetString("delimiter")
		return assets.Print(list, outputFlags, delimiter)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	addFilterFlags(listCmd)
	listCmd.Flags().StringP("output", "o", "n", "Output flags: n(ame) i(d) t(ype) c(ategory) s(eries) z(size) g(tags) u(rl) p(rovider) d(ir)")
	listCmd.Flags().StringP("delimiter", "d", " ", "Delimiter between output columns")
	listCmd.Flags().Bool("json", false, "Print assets as JSON")
}
