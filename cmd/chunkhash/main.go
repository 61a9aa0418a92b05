package main

import (
	"log"
	"os"
)

func main() {
	log.SetFlags(0)

	if err := newRootCommand().Execute(); err != nil {
		log.Printf("error: %v", err)
		os.Exit(1)
	}
}
