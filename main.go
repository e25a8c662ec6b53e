package main

import "github.com/huuquangg/dfscan/cmd"

func main() {
	cmd.Execute()
}
