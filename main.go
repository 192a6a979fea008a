package main

import "github.com/theirongolddev/futureline/cmd"

func main() {
	cmd.Execute()
}
