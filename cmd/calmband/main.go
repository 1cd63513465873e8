package main

import "github.com/synheart/calmband/internal/cli"

func main() {
	cli.Execute()
}
