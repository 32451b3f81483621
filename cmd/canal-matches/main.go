package main

import "github.com/pfrederiksen/canal-matches/internal/cli"

func main() {
	cli.Execute()
}
