package main

import (
	"fmt"
	"os"

	"github.com/streakkeeper/streakkeeper/internal/apperr"
)

// version is set via ldflags during build
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(apperr.ExitCode(err))
	}
}
