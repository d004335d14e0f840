package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harmonyedit/assetcat/internal/server"
	"github.com/harmonyedit/assetcat/internal/utils"
	"github.com/harmonyedit/assetcat/pkg/console"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the cached catalog over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		listenAddr, _ := cmd.Flags().GetString("bind")
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")
		ringSize, _ := cmd.Flags().GetInt("console-size")

		db, _, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		// Capture log activity so /api/console can replay it.
		ring := console.NewRing(ringSize)
		utils.Log.AddHook(console.NewHook(ring))

		return server.New(db, ring, username, password).Start(listenAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("bind", ":8080", "HTTP listen address")
	serveCmd.Flags().String("username", "", "Basic auth username (empty disables auth)")
	serveCmd.Flags().String("password", "", "Basic auth password")
	serveCmd.Flags().Int("console-size", 500, "Number of log records kept for /api/console")
}
