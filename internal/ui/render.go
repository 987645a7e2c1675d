package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Render receives reply text as it streams in.
type Render interface {
	Writeln(args ...interface{})
	Writef(format string, args ...interface{})
	Write(args ...interface{})
}

// StdRenderer writes straight through to an io.Writer, stdout by default.
type StdRenderer struct {
	w io.Writer
}

func NewStdRenderer() *StdRenderer {
	return &StdRenderer{w: os.Stdout}
}

// NewWriterRenderer renders into w.
func NewWriterRenderer(w io.Writer) *StdRenderer {
	return &StdRenderer{w: w}
}

func (r *StdRenderer) Writef(format string, args ...interface{}) {
	fmt.Fprintf(r.w, format, args...)
}

func (r *StdRenderer) Writeln(args ...interface{}) {
	fmt.Fprintln(r.w, args...)
}

func (r *StdRenderer) Write(args ...interface{}) {
	fmt.Fprint(r.w, args...)
}

// FileRenderer buffers output into a file; Close flushes it.
type FileRenderer struct {
	file   *os.File
	writer *bufio.Writer
}

func NewFileRenderer(filename string) (*FileRenderer, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return &FileRenderer{file: file, writer: bufio.NewWriter(file)}, nil
}

func (fr *FileRenderer) Writef(format string, args ...interface{}) {
	if fr.writer != nil {
		fmt.Fprintf(fr.writer, format, args...)
	}
}

func (fr *FileRenderer) Write(args ...interface{}) {
	if fr.writer != nil {
		fmt.Fprint(fr.writer, args...)
	}
}

func (fr *FileRenderer) Writeln(args ...interface{}) {
	if fr.writer != nil {
		fmt.Fprintln(fr.writer, args...)
	}
}

// Reset drops everything written so far, buffered or not.
func (fr *FileRenderer) Reset() error {
	if fr.file == nil {
		return nil
	}
	fr.writer.Reset(fr.file)
	if err := fr.file.Truncate(0); err != nil {
		return fmt.Errorf("failed to truncate output file: %w", err)
	}
	_, err := fr.file.Seek(0, io.SeekStart)
	return err
}

func (fr *FileRenderer) Close() error {
	if fr.writer != nil {
		fr.writer.Flush()
		fr.writer = nil
	}
	if fr.file != nil {
		err := fr.file.Close()
		fr.file = nil
		return err
	}
	return nil
}
