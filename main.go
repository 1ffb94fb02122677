package main

import "github.com/mfriel/noodle/cmd"

func main() {
	cmd.Execute()
}
