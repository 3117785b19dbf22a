package main

import "github.com/assistify/assistify/cmd"

func main() {
	cmd.Execute()
}
