package main

import (
	"github.com/harmonyedit/assetcat/cmd"
)

func main() {
	cmd.Execute()
}
