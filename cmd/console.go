package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/welfaredesk/distress-console/internal/api"
	"github.com/welfaredesk/distress-console/internal/attach"
	"github.com/welfaredesk/distress-console/internal/session"
	"github.com/welfaredesk/distress-console/internal/ui"
)

var forceTUI bool

// consoleCmd represents the console command
var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Start the interactive case console",
	Long: `Start the full-screen console connected to the backend API.

The console opens on the case registry, or on the sign-in screen when no
valid session exists. It runs until quit (q) or interrupted (Ctrl+C).

Examples:
  # Connect to the default backend
  distress-console console

  # Connect to a specific backend
  distress-console console --api https://dms.example.org/api

  # Stage attachments from a custom directory
  distress-console console --attach-dir /srv/intake/files`,
	RunE: runConsole,
}

func init() {
	rootCmd.AddCommand(consoleCmd)

	consoleCmd.Flags().BoolVar(&forceTUI, "force-tui", false, "Force full-screen mode even in unsupported terminals")
}

func runConsole(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	config := GetConfig()

	// Full-screen mode owns the terminal, so logs go to a file; errors stay
	// visible on stderr.
	logFile := setupFileLogger()
	var logger *log.Logger
	if logFile != nil {
		logger = log.New(io.MultiWriter(logFile, &errorFilterWriter{os.Stderr}), "[console] ", log.LstdFlags)
		defer logFile.Close()
	} else {
		logger = log.New(os.Stderr, "[console] ", log.LstdFlags)
	}

	logger.Println("Starting Distress Console")
	logger.Printf("Terminal info: %s", getTerminalInfo())
	logger.Printf("Backend: %s", config.API.BaseURL)

	if !forceTUI && !canInitializeTUI() {
		if needsPseudoTTY() {
			logger.Println("No TTY available, using script command for pseudo-TTY...")
			return runWithPseudoTTY(args)
		}
		fmt.Fprintln(os.Stderr, "The console needs an interactive terminal.")
		fmt.Fprintln(os.Stderr, "Use a native terminal, or headless commands such as:")
		fmt.Fprintln(os.Stderr, "  distress-console list")
		return fmt.Errorf("terminal does not support full-screen mode")
	}

	sess := session.NewStore(config.Session.Path)
	client := api.NewClient(config.API.BaseURL, sess, logger)

	picker, err := attach.NewPicker(config.Attach.Dir, logger)
	if err != nil {
		return fmt.Errorf("attachment staging: %w", err)
	}
	logger.Printf("Attachment staging directory: %s", picker.Dir())

	console := ui.NewConsole(ctx, client, picker, logger)
	client.SetSessionExpiredFunc(console.SessionExpired)

	go func() {
		if err := picker.Watch(ctx); err != nil && ctx.Err() == nil {
			logger.Printf("Attachment watcher error: %v", err)
		}
	}()

	if err := console.Start(ctx); err != nil {
		return fmt.Errorf("console error: %w", err)
	}

	logger.Println("Distress Console stopped")
	return nil
}

// canInitializeTUI tests if tcell can actually be initialized
func canInitializeTUI() bool {
	screen, err := tcell.NewScreen()
	if err != nil {
		return false
	}
	if err := screen.Init(); err != nil {
		return false
	}
	screen.Fini()
	return true
}

// getTerminalInfo returns detailed terminal information
func getTerminalInfo() string {
	var info []string

	term := os.Getenv("TERM")
	if term == "" {
		info = append(info, "TERM=<not set>")
	} else {
		info = append(info, fmt.Sprintf("TERM=%s", term))
	}

	if termProgram := os.Getenv("TERM_PROGRAM"); termProgram != "" {
		info = append(info, fmt.Sprintf("TERM_PROGRAM=%s", termProgram))
	}

	if width, height := getTerminalSize(); width > 0 && height > 0 {
		info = append(info, fmt.Sprintf("Size=%dx%d", width, height))
	}

	if isTerminal() {
		info = append(info, "TTY=yes")
	} else {
		info = append(info, "TTY=no")
	}

	return strings.Join(info, ", ")
}

// isTerminal checks if stdout is a terminal
func isTerminal() bool {
	if fileInfo, err := os.Stdout.Stat(); err == nil {
		return (fileInfo.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// needsPseudoTTY checks if we need to use script command for pseudo-TTY
func needsPseudoTTY() bool {
	// Try to actually open /dev/tty (not just check if it exists)
	if file, err := os.OpenFile("/dev/tty", os.O_RDWR, 0); err == nil {
		file.Close()
		return false
	}
	return true
}

// runWithPseudoTTY re-executes the console command using script for pseudo-TTY
func runWithPseudoTTY(args []string) error {
	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	cmdArgs := []string{"console"}
	cmdArgs = append(cmdArgs, args...)

	hasForceTUI := false
	for _, arg := range args {
		if arg == "--force-tui" {
			hasForceTUI = true
			break
		}
	}
	if !hasForceTUI {
		cmdArgs = append(cmdArgs, "--force-tui")
	}

	quotedArgs := make([]string, len(cmdArgs))
	for i, arg := range cmdArgs {
		quotedArgs[i] = fmt.Sprintf("%q", arg)
	}
	fullCmd := fmt.Sprintf("TERM=%s %q %s",
		os.Getenv("TERM"), executable, strings.Join(quotedArgs, " "))

	scriptCmd := exec.Command("script", "-qec", fullCmd, "/dev/null")
	scriptCmd.Stdin = os.Stdin
	scriptCmd.Stdout = os.Stdout
	scriptCmd.Stderr = os.Stderr
	scriptCmd.Env = os.Environ()

	return scriptCmd.Run()
}

// setupFileLogger creates a log file for full-screen mode
func setupFileLogger() *os.File {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	logDir := filepath.Join(home, ".distress-console", "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil
	}

	logPath := filepath.Join(logDir, "distress-console.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil
	}

	return logFile
}

// errorFilterWriter only writes error messages to the underlying writer
type errorFilterWriter struct {
	writer io.Writer
}

func (w *errorFilterWriter) Write(p []byte) (n int, err error) {
	lc := strings.ToLower(string(p))
	if strings.Contains(lc, "error") ||
		strings.Contains(lc, "failed") ||
		strings.Contains(lc, "panic") {
		return w.writer.Write(p)
	}
	// Suppress non-error logs while the screen is owned by the console
	return len(p), nil
}
