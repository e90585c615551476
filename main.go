package main

import (
	"os"

	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
