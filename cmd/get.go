package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harmonyedit/assetcat/pkg/assets"
)

// getCmd represents the parent `db get` command.
var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Extract URL lists from the database by asset type",
}

// getAndPrintURLs loads the cached assets and prints whatever the
// collector extracts, one per line.
func getAndPrintURLs(collect func([]assets.Asset) []string) error {
	db, _, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	list, err := db.LoadAssets(context.Background(), "")
	if err != nil {
		return err
	}
	for _, u := range collect(list) {
		fmt.Println(u)
	}
	return nil
}

// collectDownloads gathers download URLs for one asset type, deduplicated
// and sorted. An empty type keeps every asset.
func collectDownloads(list []assets.Asset, assetType string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range list {
		if assetType != "" && !strings.EqualFold(a.Type, assetType) {
			continue
		}
		if a.DownloadURL == "" || seen[a.DownloadURL] {
			continue
		}
		seen[a.DownloadURL] = true
		out = append(out, a.DownloadURL)
	}
	sort.Strings(out)
	return out
}

// collectPreviews gathers preview image URLs, deduplicated and sorted.
func collectPreviews(list []assets.Asset) []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range list {
		if a.PreviewURL == "" || seen[a.PreviewURL] {
			continue
		}
		seen[a.PreviewURL] = true
		out = append(out, a.PreviewURL)
	}
	sort.Strings(out)
	return out
}

// collectProviders gathers the distinct hosting providers, sorted.
func collectProviders(list []assets.Asset) []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range list {
		if a.Provider == "" || seen[a.Provider] {
			continue
		}
		seen[a.Provider] = true
		out = append(out, a.Provider)
	}
	sort.Strings(out)
	return out
}

func init() {
	dbCmd.AddCommand(getCmd)
}
