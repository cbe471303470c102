// cmd/mandi-cli/main.go
package main

import "mandi-workers/internal/cli"

func main() {
	cli.Execute()
}
