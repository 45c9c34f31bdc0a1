package main

import "github.com/predakanga/derive_gen/cmd"

func main() {
	cmd.Execute()
}
