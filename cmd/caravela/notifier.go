package main

import (
	"fmt"
	"io"

	"github.com/azzeddinezrarqi1/lacaravella/internal/customizer"
)

// consoleNotifier prints session notifications, one per line.
type consoleNotifier struct{ w io.Writer }

func (n consoleNotifier) Notify(level customizer.Level, message string) {
	prefix := "  "
	switch level {
	case customizer.LevelSuccess:
		prefix = "✓ "
	case customizer.LevelError:
		prefix = "✗ "
	}
	fmt.Fprintln(n.w, prefix+message)
}
