package main

import (
	"os"

	"github.com/abhisek/coinquest/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
