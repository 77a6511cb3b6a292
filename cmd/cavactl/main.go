package main

import (
	"fmt"
	"os"

	"github.com/jhoicas/Cava-api/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
