package iostreams

import (
	"fmt"
	"io"
)

// Interface defines the contract for structured IO streams.
type Interface interface {
	// Fprintf writes formatted output to Out with automatic newline
	Fprintf(format string, args ...any)
	// Fprintln writes output to Out with automatic newline
	Fprintln(args ...any)
	// Errorf writes formatted progress/error output to ErrOut with automatic newline
	Errorf(format string, args ...any)
	// Out returns the output writer (stdout)
	Out() io.Writer
	// In returns the input reader (stdin)
	In() io.Reader
	// ErrOut returns the error output writer (stderr)
	ErrOut() io.Writer
}

// IOStreams provides structured access to standard input/output/error
// streams with convenience methods for formatted output.
type IOStreams struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

// NewIOStreams creates a new IOStreams with the given readers/writers.
func NewIOStreams(in io.Reader, out io.Writer, errOut io.Writer) *IOStreams {
	return &IOStreams{
		in:     in,
		out:    out,
		errOut: errOut,
	}
}

// Fprintf writes formatted output to Out with automatic newline. When no
// args are provided the format string is written as-is.
func (s *IOStreams) Fprintf(format string, args ...any) {
	if s.out == nil {
		return
	}

	message := format
	if len(args) > 0 {
		message = fmt.Sprintf(format, args...)
	}

	_, _ = fmt.Fprintln(s.out, message)
}

// Fprintln writes output to Out with automatic newline.
func (s *IOStreams) Fprintln(args ...any) {
	if s.out == nil {
		return
	}

	_, _ = fmt.Fprintln(s.out, args...)
}

// Errorf writes formatted output to ErrOut with automatic newline. When no
// args are provided the format string is written as-is.
func (s *IOStreams) Errorf(format string, args ...any) {
	if s.errOut == nil {
		return
	}

	message := format
	if len(args) > 0 {
		message = fmt.Sprintf(format, args...)
	}

	_, _ = fmt.Fprintln(s.errOut, message)
}

// Out returns the output writer (stdout).
func (s *IOStreams) Out() io.Writer {
	return s.out
}

// In returns the input reader (stdin).
func (s *IOStreams) In() io.Reader {
	return s.in
}

// ErrOut returns the error output writer (stderr).
func (s *IOStreams) ErrOut() io.Writer {
	return s.errOut
}

// QuietWrapper wraps an IOStreams and suppresses progress output (Errorf).
// Regular output is passed through unchanged.
type QuietWrapper struct {
	delegate Interface
}

// NewQuietWrapper creates a new QuietWrapper that suppresses progress output.
func NewQuietWrapper(delegate Interface) *QuietWrapper {
	return &QuietWrapper{delegate: delegate}
}

// Fprintf passes through to the delegate unchanged.
func (q *QuietWrapper) Fprintf(format string, args ...any) {
	q.delegate.Fprintf(format, args...)
}

// Fprintln passes through to the delegate unchanged.
func (q *QuietWrapper) Fprintln(args ...any) {
	q.delegate.Fprintln(args...)
}

// Errorf is suppressed (no-op) in quiet mode.
func (q *QuietWrapper) Errorf(string, ...any) {
}

// Out returns the output writer from the delegate.
func (q *QuietWrapper) Out() io.Writer {
	return q.delegate.Out()
}

// In returns the input reader from the delegate.
func (q *QuietWrapper) In() io.Reader {
	return q.delegate.In()
}

// ErrOut returns the error output writer from the delegate.
func (q *QuietWrapper) ErrOut() io.Writer {
	return q.delegate.ErrOut()
}
