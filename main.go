package main

import "github.com/jsphweid/midicomplexity/cmd"

func main() {
	cmd.Execute()
}
