package lines

import "io"

// LineWriter is an io.WriteCloser that decodes everything written to it and
// pushes each completed line to a single consumer. It can be used directly
// as the stdout of a child process.
type LineWriter struct {
	dec    *Decoder
	onLine func(line string) error
}

var _ io.WriteCloser = (*LineWriter)(nil)

// NewLineWriter returns a LineWriter delivering lines to onLine.
func NewLineWriter(onLine func(line string) error, opts ...Option) *LineWriter {
	return &LineWriter{
		dec:    NewDecoder(opts...),
		onLine: onLine,
	}
}

// Write decodes p. If the consumer returns an error, Write stops delivering
// the remaining lines of p and returns that error.
func (w *LineWriter) Write(p []byte) (int, error) {
	out, err := w.dec.Write(p)
	if err != nil {
		return 0, err
	}
	if err := w.emit(out); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close ends the stream and delivers the final unterminated line, if any.
func (w *LineWriter) Close() error {
	out, err := w.dec.End()
	if err != nil {
		return err
	}
	return w.emit(out)
}

func (w *LineWriter) emit(out []string) error {
	for _, line := range out {
		if err := w.onLine(line); err != nil {
			return err
		}
	}
	return nil
}
