package main

import (
	"context"
	"fmt"
	"os"

	"librarydesk/internal/app"
)

func main() {
	application, err := app.New(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	if err := application.Run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
