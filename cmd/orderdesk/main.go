package main

import (
	"os"

	"github.com/cristianoliveira/orderdesk/cmd"
	"github.com/cristianoliveira/orderdesk/internal/colors"
	"github.com/cristianoliveira/orderdesk/internal/config"
	"github.com/cristianoliveira/orderdesk/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	config.Load()
	colors.SetDebug(config.GetBool("debug", false))
	colors.SetQuiet(config.GetBool("quiet", false))
	if err := logging.InitGlobal(); err != nil {
		colors.Warning("failed to initialise file logging: " + err.Error())
	}
	defer logging.ShutdownGlobal()
	defer func() {
		if err := deps.Close(); err != nil {
			colors.Warning("failed to close cache: " + err.Error())
		}
	}()

	colors.StructuredInfo("startup", "main", "started", nil, "", nil)
	if err := cmd.Execute(); err != nil {
		colors.StructuredError("startup", "main", "failed", err, "", nil)
		return 1
	}
	colors.StructuredInfo("startup", "main", "completed", nil, "", nil)
	return 0
}
