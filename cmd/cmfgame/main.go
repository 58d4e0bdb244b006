package main

import "github.com/mcoot/colormatch/internal/cli"

func main() {
	cli.Execute()
}
