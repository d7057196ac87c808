package main

import (
	"os"

	"github.com/sandeepkv93/nova/internal/cli"
)

func main() {
	if err := cli.New().Execute(); err != nil {
		os.Exit(1)
	}
}
