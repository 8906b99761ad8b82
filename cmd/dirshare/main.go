package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "dirshare",
	Short:   "Share directories over HTTP",
	Long: `Dirshare serves one or more local directories as browsable HTTP
listings with optional uploads, login protection, image previews and
byte-range media delivery.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./dirshare.toml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
