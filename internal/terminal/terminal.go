// Package terminal defines the sink the host hands the pipeline for
// user-facing output. Handlers may declare a parameter of this interface
// type and the binder passes the host's terminal straight through.
package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Terminal is the output sink for resolved commands and diagnostics.
type Terminal interface {
	// Print writes a line of normal output.
	Print(msg string)
	// Error writes a line of diagnostic output.
	Error(msg string)
}

// Stdio writes normal output to Out and diagnostics to Err.
type Stdio struct {
	Out io.Writer
	Err io.Writer
}

// NewStdio returns a Terminal over the process's stdout and stderr.
func NewStdio() *Stdio {
	return &Stdio{Out: os.Stdout, Err: os.Stderr}
}

func (s *Stdio) Print(msg string) { fmt.Fprintln(s.Out, msg) }
func (s *Stdio) Error(msg string) { fmt.Fprintln(s.Err, msg) }

// Buffer records output in memory, primarily for tests.
type Buffer struct {
	Lines    []string
	ErrLines []string
}

func (b *Buffer) Print(msg string) { b.Lines = append(b.Lines, msg) }
func (b *Buffer) Error(msg string) { b.ErrLines = append(b.ErrLines, msg) }

// Output returns all normal output joined by newlines.
func (b *Buffer) Output() string { return strings.Join(b.Lines, "\n") }
