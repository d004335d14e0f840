package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harmonyedit/assetcat/pkg/assets"
)

var getTexturesCmd = &cobra.Command{
	Use:   "textures",
	Short: "Get download URLs for all texture assets",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getAndPrintURLs(func(list []assets.Asset) []string {
			return collectDownloads(list, "texture")
		})
	},
}

func init() {
	getCmd.AddCommand(getTexturesCmd)
}
