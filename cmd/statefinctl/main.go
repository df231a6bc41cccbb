package main

import (
	"os"

	"statefin-backend/cmd/statefinctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
