package main

import "github.com/mateconpizza/later/cmd"

func main() {
	cmd.Execute()
}
