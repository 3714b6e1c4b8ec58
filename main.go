package main

import "sheetmap/cmd"

func main() {
	cmd.Execute()
}
