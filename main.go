package main

import "github.com/xvierd/unfocus/cmd"

func main() {
	cmd.Execute()
}
