package main

import (
	"github.com/vellumlabs/docchat-cli/internal/adapters/driving/cli"
)

func main() {
	cli.Execute()
}
