package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"marklive/internal/share"
)

var shareURL string

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Encode and decode share links",
}

var shareEncodeCmd = &cobra.Command{
	Use:   "encode [file]",
	Short: "Encode a markdown file (or stdin) into a share fragment",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var content []byte
		var err error
		if len(args) == 1 {
			content, err = os.ReadFile(args[0])
		} else {
			content, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		frag := share.Fragment(string(content))
		if shareURL != "" {
			fmt.Printf("%s#%s\n", shareURL, frag)
			return nil
		}
		fmt.Println(frag)
		return nil
	},
}

var shareDecodeCmd = &cobra.Command{
	Use:   "decode <fragment>",
	Short: "Decode a share fragment back to markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, ok := share.ParseFragment(args[0])
		if !ok {
			return fmt.Errorf("fragment is not a valid share link")
		}
		fmt.Print(content)
		return nil
	},
}

func init() {
	shareEncodeCmd.Flags().StringVar(&shareURL, "url", "", "prepend a server URL to produce a full link")
	shareCmd.AddCommand(shareEncodeCmd)
	shareCmd.AddCommand(shareDecodeCmd)
	rootCmd.AddCommand(shareCmd)
}
