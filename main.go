package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/mediaops/amsctl/cmd"
	log "github.com/mediaops/amsctl/pkg/logger"
)

func main() {
	// Exit with the POSIX convention code when interrupted.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		if s, ok := sig.(syscall.Signal); ok {
			os.Exit(128 + int(s))
		}
		os.Exit(130)
	}()

	if err := cmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
