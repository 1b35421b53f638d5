// main.go
//
// Minimal entry point that delegates CLI handling to the Cobra root command in cmd/root.go

package main

import (
	"github.com/haru1843/mobile-info-network-rep02/cmd"
)

func main() {
	cmd.Execute()
}
