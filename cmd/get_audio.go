package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harmonyedit/assetcat/pkg/assets"
)

var getAudioCmd = &cobra.Command{
	Use:   "audio",
	Short: "Get download URLs for all audio assets",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getAndPrintURLs(func(list []assets.Asset) []string {
			return collectDownloads(list, "audio")
		})
	},
}

func init() {
	getCmd.AddCommand(getAudioCmd)
}
