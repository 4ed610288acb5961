package main

import "github.com/xvierd/wod-cli/cmd"

func main() {
	cmd.Execute()
}
