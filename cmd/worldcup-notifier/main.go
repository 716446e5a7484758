package main

import (
	"github.com/mbichoffe/worldcup-notifier/internal/cli"
)

func main() {
	cli.Execute()
}
