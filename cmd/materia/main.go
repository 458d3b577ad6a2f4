package main

import (
	"os"

	"github.com/talosedu/materia/internal/adapters/driving/cli"
	"github.com/talosedu/materia/internal/logger"
)

func main() {
	if err := cli.Execute(); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}
