package main

import (
	"github.com/pachterlab/seqspec/cmd"
)

func main() {
	cmd.Execute() // initialize cobra commands
}
