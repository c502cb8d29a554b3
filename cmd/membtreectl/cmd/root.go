// Package cmd implements the membtreectl subcommands.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var serverAddr string

var rootCmd = &cobra.Command{
	Use:   "membtreectl",
	Short: "membtreectl talks to a running membtreed server",
	Long: `membtreectl is a thin HTTP client for membtreed: put, get, delete,
range-scan, and split_off a running server's tree.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverAddr, "server", "http://127.0.0.1:8080", "membtreed base URL")
}

var httpClient = &http.Client{Timeout: 10 * time.Second}

func apiURL(path string) string {
	return strings.TrimRight(serverAddr, "/") + "/v1" + path
}

func doRequest(method, path string, body any) (map[string]any, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = strings.NewReader(string(encoded))
	}

	req, err := http.NewRequest(method, apiURL(path), reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return out, fmt.Errorf("server returned %d: %v", resp.StatusCode, out["error"])
	}
	return out, nil
}
