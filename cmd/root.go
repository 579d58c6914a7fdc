/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "wgot [flags] URL...",
	Short: "wgot fetches files over HTTP with parallel ranged downloads",
	Long: `wgot fetches one or more files over HTTP, splitting files above the
multipart threshold into concurrent byte-range requests and verifying
server-advertised checksums when the response carries one.`,
	Args:         cobra.ArbitraryArgs,
	RunE:         runGet,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var (
	flagOutput      string
	flagInputFile   string
	flagConcurrency int
	flagQuiet       bool
	flagUser        string
	flagPassword    string
	flagMaxRedirect int
	flagMD5         string
	flagSHA256      string
	flagDebug       bool
	flagUserAgent   string
)

func init() {
	rootCmd.AddCommand(getCmd)

	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output-document", "O", "", "write downloaded data to this file; \"-\" streams to stdout")
	rootCmd.PersistentFlags().StringVarP(&flagInputFile, "input-file", "i", "", "read URLs from this file, one per line; \"-\" reads from stdin")
	rootCmd.PersistentFlags().IntVarP(&flagConcurrency, "concurrent", "c", 0, "number of worker goroutines (0 = engine default)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", "", "basic auth username")
	rootCmd.PersistentFlags().StringVar(&flagPassword, "password", "", "basic auth password")
	rootCmd.PersistentFlags().IntVar(&flagMaxRedirect, "max-redirect", 0, "maximum redirects to follow (0 = engine default)")
	rootCmd.PersistentFlags().StringVar(&flagMD5, "md5", "", "expected MD5 checksum of the downloaded content")
	rootCmd.PersistentFlags().StringVar(&flagSHA256, "sha256", "", "expected SHA256 checksum of the downloaded content")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "d", false, "turn on debug logging to debug.log")
	rootCmd.PersistentFlags().StringVarP(&flagUserAgent, "user-agent", "U", "", "identify as this User-Agent instead of the default")
}
