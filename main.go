package main

import (
	"github.com/sketchrun/livepreview/cmd"
)

func main() {
	cmd.Execute()
}
