package main

import (
	"os"

	"github.com/mohamad-slime/dbal/pkg/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
