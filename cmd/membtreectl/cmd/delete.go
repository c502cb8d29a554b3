package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Delete a key",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := doRequest("DELETE", "/kv/"+args[0], nil); err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Println("deleted")
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
