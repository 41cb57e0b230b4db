package main

import (
	"fmt"
	"os"
)

func main() {
	if err := loadEnvFiles(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
