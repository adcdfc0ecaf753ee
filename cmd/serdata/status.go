package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

const (
	colorReset = "\x1b[0m"
	colorRed   = "\x1b[31m"
	colorGreen = "\x1b[32m"
	colorBlue  = "\x1b[34m"
)

// statusPrinter writes aligned check results, coloring them when the
// destination is a terminal.
type statusPrinter struct {
	out   io.Writer
	color bool
}

func newStatusPrinter(out io.Writer) *statusPrinter {
	return &statusPrinter{out: out, color: isTerminal(out)}
}

func (p *statusPrinter) section(title string) {
	head := "== " + strings.TrimSpace(title) + " =="
	p.println(head, colorBlue)
	p.println(strings.Repeat("-", len(head)), colorBlue)
}

func (p *statusPrinter) check(label string, passed bool, detail string) {
	verdict, tint := "[ERROR]", colorRed
	if passed {
		verdict, tint = "[OK]", colorGreen
	}
	if detail != "" {
		verdict += " " + detail
	}
	p.println(fmt.Sprintf("  %-20s %s", label+":", verdict), tint)
}

func (p *statusPrinter) println(line, tint string) {
	if p.color {
		line = tint + line + colorReset
	}
	fmt.Fprintln(p.out, line)
}

// isTerminal reports whether writer is an interactive terminal. It gates
// status colors and the ingest progress bar.
func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
