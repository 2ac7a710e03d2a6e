package main

import "refine/internal/cli"

func main() {
	cli.Execute()
}
