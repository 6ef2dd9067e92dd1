package main

import (
	"log"

	"github.com/Guisb12/lusia-cal/pkg/commands"
)

func main() {
	if err := commands.New().Execute(); err != nil {
		log.Fatalf("error during command execution: %v", err)
	}
}
