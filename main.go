package main

import "git-refspec/cmd"

func main() {
	cmd.Execute()
}
