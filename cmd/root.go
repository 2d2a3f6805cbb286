package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "marklive",
	Short: "Live Markdown preview with diagrams and shareable links",
	Long: `Marklive serves a browser-based Markdown editor with a live preview:
GitHub-flavored rendering, syntax-highlighted code fences, diagram
fences laid out by d2, and compact share links carried in the URL
fragment. It can also batch-render a directory of markdown files into
a static site using the same pipeline.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lmicroseconds)
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".marklive.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
