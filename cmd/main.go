package main

import "clickbreak/internal/cli"

func main() {
	cli.Execute()
}
