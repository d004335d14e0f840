package cmd

import (
	"github.com/spf13/cobra"
)

var getThumbnailsCmd = &cobra.Command{
	Use:   "thumbnails",
	Short: "Get preview image URLs for all assets",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getAndPrintURLs(collectPreviews)
	},
}

var getProvidersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Get the distinct hosting providers across all assets",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getAndPrintURLs(collectProviders)
	},
}

func init() {
	getCmd.AddCommand(getThumbnailsCmd)
	getCmd.AddCommand(getProvidersCmd)
}
