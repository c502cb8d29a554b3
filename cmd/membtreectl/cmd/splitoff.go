package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var splitOffCmd = &cobra.Command{
	Use:   "split-off <key>",
	Short: "Split the tree at key, keeping keys < key on the server",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := doRequest("POST", "/split-off", map[string]any{"key": args[0]})
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Printf("left_len=%v right_len=%v\n", resp["left_len"], resp["right_len"])
	},
}

func init() {
	rootCmd.AddCommand(splitOffCmd)
}
