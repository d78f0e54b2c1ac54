package main

import "github.com/josephlewis42/queenshell/cmd"

func main() {
	cmd.Execute()
}
