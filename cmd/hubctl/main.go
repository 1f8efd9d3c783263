package main

import "github.com/mentorhub/mentorhub/internal/cli"

func main() {
	cli.Execute()
}
