package main

import "github.com/andymb/airframe/cmd"

func main() {
	cmd.Execute()
}
