package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harmonyedit/assetcat/pkg/assets"
	"github.com/harmonyedit/assetcat/pkg/project"
)

// projectCmd inspects a scene project file without touching the cache.
var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Inspect a scene project file",
}

var projectUsageCmd = &cobra.Command{
	Use:   "usage <project-file>",
	Short: "Show where each asset is referenced across the project's scenes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := project.Load(args[0])
		if err != nil {
			return err
		}

		usage := p.Usage()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ASSET\tSCENE\tNODE\t")
		for _, a := range p.Assets {
			refs := usage[a.ID]
			if len(refs) == 0 {
				fmt.Fprintf(w, "%s\t-\t-\t\n", a.Name)
				continue
			}
			for _, r := range refs {
				fmt.Fprintf(w, "%s\t%s\t%s\t\n", a.Name, r.Scene, r.NodePath)
			}
		}
		w.Flush()

		if unused := p.Unreferenced(); len(unused) > 0 {
			fmt.Printf("\n%d assets are never referenced:\n", len(unused))
			for _, a := range unused {
				fmt.Printf("  %s (%s)\n", a.Name, a.ID)
			}
		}
		return nil
	},
}

var projectAssetsCmd = &cobra.Command{
	Use:   "assets <project-file>",
	Short: "List the assets a project file declares",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("expected exactly one project file")
		}
		p, err := project.Load(args[0])
		if err != nil {
			return err
		}
		outputFlags, _ := cmd.Flags().GetString("output")
		delimiter, _ := cmd.Flags().GetString("delimiter")
		return assets.Print(p.Assets, outputFlags, delimiter)
	},
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectUsageCmd)
	projectCmd.AddCommand(projectAssetsCmd)
	projectAssetsCmd.Flags().StringP("output", "o", "n", "Output flags, same as 'assetcat list'")
	projectAssetsCmd.Flags().StringP("delimiter", "d", " ", "Delimiter between output columns")
}
