package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harmonyedit/assetcat/pkg/storage"
)

// sessionCmd manages the persisted filter session shared by list/facets.
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage the persisted filter session",
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the persisted filter session",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		sess, err := storage.NewSessionStore(db, storage.DefaultSessionKey).Load(cmd.Context())
		if err != nil {
			return err
		}
		if sess.IsZero() {
			fmt.Println("No filter session saved.")
			return nil
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sess)
	},
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the persisted filter session",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		return storage.NewSessionStore(db, storage.DefaultSessionKey).Clear(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionClearCmd)
}
