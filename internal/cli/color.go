package cli

import (
	"os"
	"sync"

	"github.com/mattn/go-isatty"
)

const (
	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

var (
	colorOnce sync.Once
	colorOn   bool
)

// useColor reports whether stdout wants ANSI colors.
func useColor() bool {
	colorOnce.Do(func() {
		// NO_COLOR convention: https://no-color.org/
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return
		}
		if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			return
		}
		if os.Getenv("TERM") == "dumb" {
			return
		}
		colorOn = true
	})
	return colorOn
}

func colorize(code, s string) string {
	if !useColor() {
		return s
	}
	return code + s + ansiReset
}

func passTag() string { return colorize(ansiGreen, "PASS") }
func failTag() string { return colorize(ansiRed, "FAIL") }
