package main

import (
	"os"

	"github.com/vitos/xau_money_management/cmd/mmctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
