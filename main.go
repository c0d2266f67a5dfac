package main

import "github.com/ink-kai/inkworld/cmd"

func main() {
	cmd.Execute()
}
