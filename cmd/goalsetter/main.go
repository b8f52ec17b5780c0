package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/arnold/goalsetter/internal/cli"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if err := cli.NewRootCommand().Execute(); err != nil {
		// commands report their own failures; only flag and argument errors reach here unprinted
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
