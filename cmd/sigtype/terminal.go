package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// switchMode is the auto|on|off value shared by --color and --ui.
type switchMode uint8

const (
	switchAuto switchMode = iota
	switchOn
	switchOff
)

func parseSwitch(flag, value string) (switchMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return switchAuto, nil
	case "on", "always":
		return switchOn, nil
	case "off", "never":
		return switchOff, nil
	}
	return switchAuto, fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
}

// enabled решает auto по тому, терминал ли w.
func (m switchMode) enabled(w io.Writer) bool {
	switch m {
	case switchOn:
		return true
	case switchOff:
		return false
	}
	return isTerminal(w)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func useColor(value string, w io.Writer) (bool, error) {
	m, err := parseSwitch("color", value)
	return m.enabled(w), err
}
