package main

import "go-comping/cmd"

func main() {
	cmd.Execute()
}
