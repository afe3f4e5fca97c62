package main

import "github.com/jsphweid/intervaldex/cmd"

func main() {
	cmd.Execute()
}
