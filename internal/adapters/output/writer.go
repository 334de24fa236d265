// Package output provides adapters for writing application output.
package output

import (
	"fmt"
	"io"
	"os"
)

// Writer writes rendered version lines to the configured output destination.
// By default, it writes to stdout.
type Writer struct {
	out io.Writer
}

// NewWriter creates a new Writer that writes to stdout.
func NewWriter() *Writer {
	return &Writer{out: os.Stdout}
}

// NewWriterWithOutput creates a new Writer with a custom output destination.
// This is useful for testing.
func NewWriterWithOutput(out io.Writer) *Writer {
	return &Writer{out: out}
}

// WriteLine writes one rendered line without any prefix or formatting.
func (w *Writer) WriteLine(line string) error {
	_, err := fmt.Fprintln(w.out, line)
	return err
}
