package main

import "github.com/mcoot/parityagent-go/internal/cli"

func main() {
	cli.Execute()
}
