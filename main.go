package main

import (
	"github.com/colsync/colsync/cmd"
)

func main() {
	cmd.Execute()
}
