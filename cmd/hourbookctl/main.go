// Command hourbookctl runs maintenance tasks against the Hourbook database.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
