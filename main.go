package main

import "github.com/deploymenttheory/go-applesingle/cmd"

func main() {
	cmd.Execute()
}
