package main

import "github.com/dankeboy36/ardunno-cli-gen/cmd"

func main() {
	cmd.Execute()
}
