package main

import (
	"fmt"
	"os"

	logger "github.com/sirupsen/logrus"

	"github.com/depshift/depshift/cmd"
)

func main() {
	logger.SetFormatter(&logger.TextFormatter{
		FullTimestamp: true,
	})

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
