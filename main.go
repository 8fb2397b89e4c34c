package main

import (
	"os"

	"github.com/ReinierMaas/PathTracer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
