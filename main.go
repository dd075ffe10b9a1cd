package main

import "audio-bridge/cmd"

func main() {
	cmd.Execute()
}
