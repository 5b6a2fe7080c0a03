package main

import "github.com/starterapp/rkeeper-adapter/cmd"

func main() {
	cmd.Execute()
}
