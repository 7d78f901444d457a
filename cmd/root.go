package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/welfaredesk/distress-console/internal/session"
)

var (
	cfgFile     string
	apiURL      string
	sessionPath string
	attachDir   string
	logLevel    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "distress-console",
	Short: "Terminal front office for the Distress Management System",
	Long: `Distress Console is a terminal client for the Distress Management System
backend. Front office operators use it to register distress cases, track
their workflow status, and attach supporting documents.

Features:
- Paginated case registry with keyboard navigation
- Case detail view with status updates and progress notes
- Intake form with sequential document upload
- Watched staging directory for attachments
- Token-based sessions persisted between runs`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.distress-console.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "http://localhost:8080/api", "Backend API base URL")
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", "", "Session token file (default is ~/.distress-console/session.json)")
	rootCmd.PersistentFlags().StringVar(&attachDir, "attach-dir", "", "Attachment staging directory (default is ~/.distress-console/attachments)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	// Bind flags to viper
	viper.BindPFlag("api.base_url", rootCmd.PersistentFlags().Lookup("api"))
	viper.BindPFlag("session.path", rootCmd.PersistentFlags().Lookup("session"))
	viper.BindPFlag("attach.dir", rootCmd.PersistentFlags().Lookup("attach-dir"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".distress-console" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".distress-console")
	}

	viper.SetEnvPrefix("DISTRESS")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// Set defaults
	viper.SetDefault("api.base_url", "http://localhost:8080/api")
	viper.SetDefault("session.path", session.DefaultPath())
	viper.SetDefault("attach.dir", defaultAttachDir())
	viper.SetDefault("log.level", "info")
}

func defaultAttachDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "attachments"
	}
	return filepath.Join(home, ".distress-console", "attachments")
}

// GetConfig returns the current configuration values
func GetConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL: viper.GetString("api.base_url"),
		},
		Session: SessionConfig{
			Path: viper.GetString("session.path"),
		},
		Attach: AttachConfig{
			Dir: viper.GetString("attach.dir"),
		},
		Log: LogConfig{
			Level: viper.GetString("log.level"),
		},
	}
}

// Config represents the application configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
	Attach  AttachConfig  `mapstructure:"attach"`
	Log     LogConfig     `mapstructure:"log"`
}

type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type SessionConfig struct {
	Path string `mapstructure:"path"`
}

type AttachConfig struct {
	Dir string `mapstructure:"dir"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}
