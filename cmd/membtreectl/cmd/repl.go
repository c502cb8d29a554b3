package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive session against the server",
	Run: func(cmd *cobra.Command, args []string) {
		runREPL()
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runREPL() {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyFile := filepath.Join(os.TempDir(), ".membtreectl_history")
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	fmt.Println("connected to", serverAddr)
	fmt.Println("commands: put <key> <value> | get <key> | delete <key> | range [from] | split-off <key> | exit")

	for {
		input, err := line.Prompt("membtree> ")
		if err != nil {
			break
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if input == "exit" || input == "quit" {
			break
		}
		dispatchREPLCommand(input)
	}

	if f, err := os.Create(historyFile); err == nil {
		line.WriteHistory(f)
		f.Close()
	}
}

func dispatchREPLCommand(input string) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return
	}

	switch fields[0] {
	case "put":
		if len(fields) != 3 {
			fmt.Println("usage: put <key> <value>")
			return
		}
		resp, err := doRequest("PUT", "/kv/"+fields[1], map[string]any{"value": fields[2]})
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Printf("stored (had_previous=%v previous_value=%v)\n", resp["had_previous"], resp["previous_value"])
	case "get":
		if len(fields) != 2 {
			fmt.Println("usage: get <key>")
			return
		}
		resp, err := doRequest("GET", "/kv/"+fields[1], nil)
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Println(resp["value"])
	case "delete":
		if len(fields) != 2 {
			fmt.Println("usage: delete <key>")
			return
		}
		if _, err := doRequest("DELETE", "/kv/"+fields[1], nil); err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Println("deleted")
	case "range":
		from := ""
		if len(fields) == 2 {
			from = fields[1]
		}
		resp, err := doRequest("GET", "/kv?from="+from, nil)
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		items, _ := resp["items"].([]any)
		for _, raw := range items {
			kv, _ := raw.(map[string]any)
			fmt.Printf("%v = %v\n", kv["key"], kv["value"])
		}
	case "split-off":
		if len(fields) != 2 {
			fmt.Println("usage: split-off <key>")
			return
		}
		resp, err := doRequest("POST", "/split-off", map[string]any{"key": fields[1]})
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Printf("left_len=%v right_len=%v\n", resp["left_len"], resp["right_len"])
	default:
		fmt.Println("unknown command:", fields[0])
	}
}
