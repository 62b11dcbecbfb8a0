package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

type healthKind int

const (
	healthInfo healthKind = iota
	healthOK
	healthWarn
	healthError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

func (k healthKind) label() string {
	switch k {
	case healthOK:
		return "OK"
	case healthWarn:
		return "WARN"
	case healthError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func (k healthKind) color() string {
	switch k {
	case healthOK:
		return ansiGreen
	case healthWarn:
		return ansiYellow
	case healthError:
		return ansiRed
	default:
		return ansiBlue
	}
}

func renderHealthLine(label string, kind healthKind, detail string, colorize bool) string {
	text := "[" + kind.label() + "]"
	if detail != "" {
		text += " " + detail
	}
	line := fmt.Sprintf("  %-18s %s", label+":", text)
	if colorize {
		return kind.color() + line + ansiReset
	}
	return line
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
