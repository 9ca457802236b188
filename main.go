package main

import (
	"github.com/gojue/vndkdef/cli/cmd"
)

func main() {
	cmd.Execute()
}
