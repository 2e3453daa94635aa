package main

import (
	"runtime"

	"mediacurator/commands"
	"mediacurator/scanner"
	"mediacurator/signalhandler"
)

func main() {
	// Hashing goes through cgo, so cap the schedulable threads.
	runtime.GOMAXPROCS(scanner.OptimalWorkers())

	commands.Execute(signalhandler.Context())
}
