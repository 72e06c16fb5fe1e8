package main

import "github.com/deploymenttheory/go-rkarchive/cmd"

func main() {
	cmd.Execute()
}
