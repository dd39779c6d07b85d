package main

import (
	"github.com/panecast/panecast/cmd"
	"github.com/panecast/panecast/internal/logging"
)

func main() {
	// Initialize logging
	logging.Init()
	cmd.Execute()
}
