package main

import (
	"os"

	"github.com/PolarWolf314/lockfiles/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
