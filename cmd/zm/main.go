package main

import (
	"os"

	"github.com/bnema/zoommark/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
