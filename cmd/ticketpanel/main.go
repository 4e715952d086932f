package main

import (
	"context"
	"fmt"
	"os"

	ticketpanel "github.com/acme/ticketpanel"
	"github.com/acme/ticketpanel/internal/app"
)

// Set at build time via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
)

func main() {
	if err := app.Run(context.Background(), ticketpanel.WebFS, Version, Commit, os.Args[1:], os.Stdout, os.Getenv); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
