package main

import (
	"fmt"
	"os"

	"github.com/Elandig/tabscribe/cmd/tabscribe/cmd"
	"github.com/Elandig/tabscribe/internal/config"
)

func main() {
	// Missing keys only warn: the library stays usable without transcription
	if _, err := config.InitializeConfig(nil); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration warning: %v\n", err)
	}

	cmd.Execute()
}
