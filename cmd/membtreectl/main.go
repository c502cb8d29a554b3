// Command membtreectl is the CLI client for membtreed.
package main

import "github.com/arbor-db/membtree/cmd/membtreectl/cmd"

func main() {
	cmd.Execute()
}
