package main

import (
	"os"

	"github.com/wonny/outperform/cmd/outperform/commands"
)

// main is the entry point for the outperform CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/outperform [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
