// Command cachesweep finds and removes dependency/build cache
// directories (node_modules, target, .venv, and similar) under a
// scan root, either interactively in a terminal UI or headlessly with
// JSON/NDJSON output.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
