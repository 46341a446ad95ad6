package main

import (
	"os"

	"github.com/carson-networks/finance-bot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
