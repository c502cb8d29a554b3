package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var putTTLSeconds int

var putCmd = &cobra.Command{
	Use:   "put <key> <value>",
	Short: "Store a key-value pair",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		key, value := args[0], args[1]
		body := map[string]any{"value": value}
		if putTTLSeconds > 0 {
			body["ttl_seconds"] = putTTLSeconds
		}
		resp, err := doRequest("PUT", "/kv/"+key, body)
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Printf("stored %q (had_previous=%v previous_value=%v)\n", key, resp["had_previous"], resp["previous_value"])
	},
}

func init() {
	rootCmd.AddCommand(putCmd)
	putCmd.Flags().IntVar(&putTTLSeconds, "ttl", 0, "expire after this many seconds")
}
