package main

import "cayc/cmd"

func main() {
	cmd.Execute()
}
