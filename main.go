package main

import (
	"os"

	"github.com/abapscan/abapscan/cmd"
)

func main() {
	code := cmd.Execute()
	os.Exit(code)
}
