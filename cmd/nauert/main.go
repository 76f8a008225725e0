package main

import "github.com/katalvlaran/nauert/cmd"

func main() {
	cmd.Execute()
}
