package main

import "github.com/tierscope/tierscope/cmd"

func main() {
	cmd.Execute()
}
