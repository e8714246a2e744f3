package main

import "goaltracker/cmd/gt/root"

func main() {
	root.Execute()
}
