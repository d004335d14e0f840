package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harmonyedit/assetcat/pkg/catalog"
)

// treeCmd prints the cached category tree.
var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the cached category tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		roots, err := db.LoadCategories(cmd.Context())
		if err != nil {
			return err
		}
		if len(roots) == 0 {
			fmt.Println("No categories cached. Run 'assetcat fetch' first.")
			return nil
		}
		for _, root := range roots {
			printCategory(root, 0)
		}
		return nil
	},
}

func printCategory(c catalog.Category, depth int) {
	fmt.Printf("%s%s (%s)\n", strings.Repeat("  ", depth), c.Name, c.ID)
	for _, child := range c.Children {
		printCategory(child, depth+1)
	}
}

// treePathCmd resolves the breadcrumb path for one category id.
var treePathCmd = &cobra.Command{
	Use:   "path <category-id>",
	Short: "Print the root-to-leaf path for a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		roots, err := db.LoadCategories(cmd.Context())
		if err != nil {
			return err
		}
		g, err := catalog.BuildGraph(roots)
		if err != nil {
			return err
		}

		leaf := g.Lookup(args[0])
		if leaf == nil {
			return fmt.Errorf("unknown category: %s", args[0])
		}
		path := catalog.ResolvePath(*leaf, g)
		names := make([]string, 0, len(path))
		for _, c := range path {
			names = append(names, c.Name)
		}
		fmt.Println(strings.Join(names, " / "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)
	treeCmd.AddCommand(treePathCmd)
}
