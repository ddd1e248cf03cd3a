package main

import "courier-sync.com/courier-sync/cmd"

func main() {
	cmd.Execute()
}
