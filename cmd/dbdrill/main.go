package main

import (
	"os"

	"github.com/solatis/dbdrill/cmd/dbdrill/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
