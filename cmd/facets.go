package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harmonyedit/assetcat/pkg/filter"
)

// facetsCmd prints the contextual filter options: which series, sizes and
// tags the current filter state still offers, exactly as a picker UI
// would show them.
var facetsCmd = &cobra.Command{
	Use:   "facets",
	Short: "Show the filter options available in the current context",
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

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		printFacet(w, "SERIES", v.SeriesOptions(), v.SelectedSeriesValue())
		printFacet(w, "SIZE", v.SizeOptions(), v.SelectedSizeValues()...)
		printFacet(w, "TAG", v.TagOptions(), v.SelectedTagValues()...)
		return w.Flush()
	},
}

func printFacet(w *tabwriter.Writer, facet string, opts []filter.Option, selected ...string) {
	chosen := make(map[string]bool, len(selected))
	for _, s := range selected {
		chosen[s] = true
	}
	for _, o := range opts {
		mark := " "
		if chosen[o.Value] {
			mark = "*"
		}
		fmt.Fprintf(w, "%s\t%s %s\t%s\n", facet, mark, o.Label, o.Value)
	}
}

func init() {
	rootCmd.AddCommand(facetsCmd)
	addFilterFlags(facetsCmd)
}
