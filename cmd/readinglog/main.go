package main

import (
	"context"
	"fmt"
	"os"

	"readinglog/internal/app"
	domainerrors "readinglog/internal/errors"
)

func main() {
	application, err := app.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	if err := application.Run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(domainerrors.CodeOf(err).ExitCode())
	}
}
