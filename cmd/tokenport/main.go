package main

import (
	"os"

	"github.com/tokenport/tokenport/internal/log"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}
