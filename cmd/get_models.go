package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harmonyedit/assetcat/pkg/assets"
)

var getModelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Get download URLs for all model assets",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getAndPrintURLs(func(list []assets.Asset) []string {
			return collectDownloads(list, "model")
		})
	},
}

func init() {
	getCmd.AddCommand(getModelsCmd)
}
