package main

import "tudu/cmd"

func main() {
	cmd.Execute()
}
