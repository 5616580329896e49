// Command riskscore scores and ranks entities from a snapshot export.
//
// Usage:
//
//	riskscore score --snapshot customers.json --id c42
//	riskscore rank --snapshot customers.json --min-score 40 --top 10
package main

import (
	"os"

	"github.com/bibbank/riskscore/cmd/riskscore/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
