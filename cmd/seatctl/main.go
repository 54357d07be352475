package main

import (
	"fmt"
	"os"

	"github.com/beesaferoot/seatctl/internal/commands"
	"github.com/beesaferoot/seatctl/internal/config"
)

func main() {
	if err := config.LoadEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	if err := commands.RootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
