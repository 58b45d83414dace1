package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	gruhacmder "github.com/gruhabuddy/gruha/cmd/gruha"
)

func main() {
	// A local .env may carry the gateway credential.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "loading .env: %v\n", err)
	}

	cmd := gruhacmder.NewGruhaCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
