package main

import "github.com/kbickell/layup/cmd/layup/cmd"

func main() {
	cmd.Execute()
}
