package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/truaccess/fieldaudit/internal/cli"
)

func main() {
	// Optional; a missing .env just means defaults and flags apply.
	_ = godotenv.Load()

	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
