package main

import "github.com/mzavel/fasting-cli/cmd"

func main() {
	cmd.Execute()
}
