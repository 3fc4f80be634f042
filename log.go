package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// setupLog routes logging to the file named by SPEEDREAD_LOGFILE. With no
// log file set, logging is discarded so it never bleeds into the TUI.
func setupLog() (func() error, error) {
	logFile := os.Getenv("SPEEDREAD_LOGFILE")
	if logFile == "" {
		log.SetOutput(io.Discard)
		return func() error { return nil }, nil
	}

	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("unable to open log file: %w", err)
	}
	log.SetOutput(f)
	log.SetTimeFormat(time.Kitchen)

	switch strings.ToLower(os.Getenv("SPEEDREAD_LOGLEVEL")) {
	case "debug", "":
		log.SetLevel(log.DebugLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	}
	return f.Close, nil
}
