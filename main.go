package main

import "cwrapped/cmd"

func main() {
	cmd.Execute()
}
