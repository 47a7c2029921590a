package main

import "github.com/aislescan/aislescan/internal/client/cli"

func main() {
	cli.Execute()
}
