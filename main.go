package main

import "github.com/bryan-buckman/quill/internal/cli"

func main() {
	cli.Execute()
}
