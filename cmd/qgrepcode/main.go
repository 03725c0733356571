package main

import "github.com/qgrepcode/qgrepcode/cmd"

func main() {
	cmd.Execute()
}
