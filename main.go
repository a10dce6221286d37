package main

import "github.com/VoxDroid/stovbot/cmd"

func main() {
	cmd.Execute()
}
