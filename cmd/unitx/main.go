package main

import (
	"os"

	"github.com/teranos/unitx/cmd/unitx/commands"
	"github.com/teranos/unitx/logger"
)

func main() {
	root := commands.NewRootCmd()
	err := root.Execute()
	logger.Cleanup()
	if err != nil {
		commands.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
