package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/lbi/cmd/lbi"
)

func main() {
	rootCmd := lbi.NewRootCmd()

	if err := doc.GenMan(rootCmd, lbi.ManHeader(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
