package main

import "github.com/ryansb/lambdactl/cmd"

func main() {
	cmd.Execute()
}
