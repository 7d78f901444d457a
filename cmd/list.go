package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/welfaredesk/distress-console/internal/api"
	"github.com/welfaredesk/distress-console/internal/session"
)

var (
	listPage  int
	listLimit int
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List cases in plain text",
	Long: `List one page of cases in a simple text format.
This command works in any terminal environment and provides an alternative
to the full-screen console when terminal capabilities are limited.

Examples:
  # List the first page
  distress-console list

  # List the third page, 25 cases per page
  distress-console list --page 3 --limit 25`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().IntVar(&listPage, "page", 1, "Page number, starting at 1")
	listCmd.Flags().IntVar(&listLimit, "limit", 20, "Maximum number of cases to show")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	config := GetConfig()
	logger := log.New(os.Stderr, "[list] ", log.LstdFlags)

	if listPage < 1 {
		return fmt.Errorf("--page must be at least 1")
	}
	if listLimit < 1 {
		return fmt.Errorf("--limit must be at least 1")
	}

	sess := session.NewStore(config.Session.Path)
	client := api.NewClient(config.API.BaseURL, sess, logger)

	cases, err := client.ListCases(ctx, listPage, listLimit)
	if err != nil {
		return fmt.Errorf("failed to list cases: %s", api.ErrorMessage(err, "could not reach the backend"))
	}

	if len(cases) == 0 {
		fmt.Println("No cases found.")
		return nil
	}

	fmt.Printf("Page %d (%d cases):\n\n", listPage, len(cases))

	for i, c := range cases {
		status := c.Status
		if status == "" {
			status = api.DefaultStatus
		}
		stage := c.Stage
		if stage == "" {
			stage = api.DefaultStage
		}

		fmt.Printf("%d. [%s] %s\n", i+1, status, c.Subject)
		if c.ReferenceNumber != "" {
			fmt.Printf("   Reference: %s\n", c.ReferenceNumber)
		}
		fmt.Printf("   Stage: %s\n", stage)
		if c.SenderName != "" {
			fmt.Printf("   Sender: %s\n", c.SenderName)
		}
		if c.NatureOfCase != "" {
			fmt.Printf("   Nature: %s\n", c.NatureOfCase)
		}
		if c.ReceivingDate != nil {
			fmt.Printf("   Received: %s\n", c.ReceivingDate.Format("2006-01-02 15:04:05"))
		}
		fmt.Println()
	}

	return nil
}
