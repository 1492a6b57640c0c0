package main

import "drive-manager/cmd"

func main() {
	cmd.Execute()
}
