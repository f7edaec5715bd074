package main

import "github.com/nathanhack/blockcodes/cmd"

func main() {
	cmd.Execute()
}
