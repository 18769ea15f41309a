package main

import "github.com/mcoot/solitaire-server/internal/cli"

func main() {
	cli.Execute()
}
