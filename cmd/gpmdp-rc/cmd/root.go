package cmd

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	configPath  string
	urlFlag     string
	tokenFlag   string
	timeout     time.Duration
	dialTimeout time.Duration
	queryFlag   string
	logLevel    string
	verbose     bool
	debug       bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gpmdp-rc",
	Short: "Remote control for Google Play Music Desktop Player",
	Long: `gpmdp-rc controls a running Google Play Music Desktop Player through
its websocket remote control API.

The server URL and the token obtained with "gpmdp-rc auth" are read from
~/gpmdp_rc.yaml unless --config, --url or --token say otherwise.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "config file (default $HOME/gpmdp_rc.yaml)")
	flags.StringVar(&urlFlag, "url", "", "GPMDP websocket URL, e.g. ws://localhost:5672")
	flags.StringVar(&tokenFlag, "token", "", "authentication token")
	flags.DurationVar(&timeout, "timeout", 0, "command timeout (default 4s)")
	flags.DurationVar(&dialTimeout, "dial-timeout", 10*time.Second, "WebSocket dial timeout")
	flags.StringVarP(&queryFlag, "query", "q", "", "print the result through a jq expression")
	flags.StringVarP(&logLevel, "log-level", "l", "warn", "log level (debug, info, warn, error)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	flags.BoolVarP(&debug, "debug", "d", false, "debug output")
}

// GetVerbose returns the verbose flag value
func GetVerbose() bool {
	return verbose
}

// GetDebug returns the debug flag value
func GetDebug() bool {
	return debug
}
