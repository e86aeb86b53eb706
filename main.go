package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/cantone/nlos/cmd"
	"github.com/cantone/nlos/pkg/generate"
	"github.com/cantone/nlos/pkg/logging"
	"github.com/cantone/nlos/pkg/version"

	"go.uber.org/zap"
	"golang.org/x/term"
)

func main() {
	logger, err := logging.New(false, version.AppName, version.Version)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	err = cmd.Execute(logger)
	if err != nil && !errors.Is(err, generate.ErrMandatoryMissing) {
		// verify already printed its report; everything else gets a diagnostic
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	syncLogger(logger)

	if err != nil {
		os.Exit(1)
	}
}

// syncLogger flushes the logger. Sync on a terminal stderr reports EINVAL on
// some platforms, which is ignored.
func syncLogger(logger *zap.Logger) {
	if !term.IsTerminal(int(os.Stderr.Fd())) && !isRegularFile(os.Stderr) {
		return
	}
	if syncErr := logger.Sync(); syncErr != nil {
		lowerErr := strings.ToLower(syncErr.Error())
		if !strings.Contains(lowerErr, "invalid argument") && !strings.Contains(lowerErr, "inappropriate ioctl") {
			log.Printf("Logger sync failed: %v", syncErr)
		}
	}
}

// isRegularFile checks if the given file is a regular file.
func isRegularFile(f *os.File) bool {
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return fileInfo.Mode().IsRegular()
}
