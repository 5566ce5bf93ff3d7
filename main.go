package main

import "github.com/theirongolddev/tburn/cmd"

func main() {
	cmd.Execute()
}
