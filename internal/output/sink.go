package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Sink is the report destination: stdout or a truncate-opened file
type Sink struct {
	out            io.Writer
	outputFile     *os.File
	bufferedWriter *bufio.Writer
}

// OpenSink opens path for writing, truncating it. An empty path selects stdout.
func OpenSink(path string, stdout io.Writer) (*Sink, error) {
	if path == "" {
		return &Sink{out: stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	bw := bufio.NewWriter(f)
	return &Sink{out: bw, outputFile: f, bufferedWriter: bw}, nil
}

func (s *Sink) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

// Flush pushes buffered output to the file
func (s *Sink) Flush() error {
	if s.bufferedWriter != nil {
		return s.bufferedWriter.Flush()
	}
	return nil
}

// Path returns the file name, or "" for stdout
func (s *Sink) Path() string {
	if s.outputFile == nil {
		return ""
	}
	return s.outputFile.Name()
}

// Close flushes and closes the file. Stdout is left open.
func (s *Sink) Close() error {
	if s.outputFile == nil {
		return nil
	}
	flushErr := s.Flush()
	closeErr := s.outputFile.Close()
	s.outputFile = nil
	s.bufferedWriter = nil
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
