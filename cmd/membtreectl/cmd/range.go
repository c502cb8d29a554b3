package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var rangeLimit int

var rangeCmd = &cobra.Command{
	Use:   "range [from]",
	Short: "List keys in ascending order starting at from",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		from := ""
		if len(args) == 1 {
			from = args[0]
		}
		resp, err := doRequest("GET", "/kv?from="+from+"&limit="+strconv.Itoa(rangeLimit), nil)
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		items, _ := resp["items"].([]any)
		for _, raw := range items {
			kv, _ := raw.(map[string]any)
			fmt.Printf("%v = %v\n", kv["key"], kv["value"])
		}
	},
}

func init() {
	rootCmd.AddCommand(rangeCmd)
	rangeCmd.Flags().IntVar(&rangeLimit, "limit", 100, "maximum number of items to return")
}
