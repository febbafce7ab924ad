package main

import (
	"fmt"
	"os"

	"github.com/ytget/harmonic-vibes/internal/app"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

func main() {
	if err := app.Run(version); err != nil {
		fmt.Fprintf(os.Stderr, "harmonic-vibes: %v\n", err)
		os.Exit(1)
	}
}
