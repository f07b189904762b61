package main

import (
	"fmt"
	"os"
)

func main() {
	err := execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
