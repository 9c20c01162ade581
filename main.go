package main

import (
	"github.com/savelocker/steamufs/cmd"
	"github.com/savelocker/steamufs/cmd/util"
)

func main() {
	defer util.HandlePanic()
	cmd.Execute()
}
