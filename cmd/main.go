package main

import (
	"os"

	"ladder-quiz/internal/cli"
	"ladder-quiz/pkg/logger"
)

func main() {
	defer logger.Sync()
	if err := cli.Execute(); err != nil {
		logger.Sync()
		os.Exit(1)
	}
}
