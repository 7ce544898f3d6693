package main

import (
	"fmt"
	"os"

	"github.com/kudiwise/kudicore/cli"
)

func main() {
	if err := cli.NewCLI(cli.Options{}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
