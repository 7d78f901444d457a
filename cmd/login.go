package cmd

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/welfaredesk/distress-console/internal/api"
	"github.com/welfaredesk/distress-console/internal/session"
)

var loginUsername string

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store a session token",
	Long: `Sign in to the backend and persist the session token so that the
console and headless commands can authenticate.

Examples:
  # Prompt for both username and password
  distress-console login

  # Supply the username, prompt only for the password
  distress-console login --username amina`,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringVar(&loginUsername, "username", "", "Account username")
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	config := GetConfig()
	logger := log.New(os.Stderr, "[login] ", log.LstdFlags)

	username := strings.TrimSpace(loginUsername)
	if username == "" {
		fmt.Print("Username: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("read username: %w", err)
		}
		username = strings.TrimSpace(line)
	}
	if username == "" {
		return fmt.Errorf("username is required")
	}

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	if len(password) == 0 {
		return fmt.Errorf("password is required")
	}

	sess := session.NewStore(config.Session.Path)
	client := api.NewClient(config.API.BaseURL, sess, logger)

	resp, err := client.Login(ctx, api.Credentials{
		Username: username,
		Password: string(password),
	})
	if err != nil {
		return fmt.Errorf("login failed: %s", api.ErrorMessage(err, "could not reach the backend"))
	}

	if resp.User != nil && resp.User.Username != "" {
		fmt.Printf("Signed in as %s.\n", resp.User.Username)
	} else {
		fmt.Println("Signed in.")
	}
	fmt.Printf("Session saved to %s\n", config.Session.Path)
	return nil
}
