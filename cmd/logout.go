package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/welfaredesk/distress-console/internal/session"
)

// logoutCmd discards the stored session token. Sessions are stateless on the
// server, so there is nothing to revoke remotely.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		config := GetConfig()
		sess := session.NewStore(config.Session.Path)
		if err := sess.Clear(); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		fmt.Println("Signed out.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
