package main

import "render-manager/cmd"

func main() {
	cmd.Execute()
}
