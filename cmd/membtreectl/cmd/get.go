package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get the value stored for a key",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := doRequest("GET", "/kv/"+args[0], nil)
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Println(resp["value"])
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
