package main

import (
	"github.com/c9s/indicalc/pkg/cmd"
)

func main() {
	cmd.Execute()
}
