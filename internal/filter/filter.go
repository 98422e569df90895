// Package filter drives a per-file filter over a batch of inputs: it isolates
// failures to the file that caused them, keeps output in invocation order and
// aborts the whole run only when the output sink fails.
package filter

import (
	"io"

	"github.com/strongdm/ccfilter/internal/rewrite"
)

// Outcome is what a Func reports about one stream.
type Outcome struct {
	BytesIn  int64
	BytesOut int64
	Warnings []rewrite.Warning
}

// Func filters one named stream. Errors should be *rewrite.ReadError,
// *rewrite.WriteError or *rewrite.MalformedInputError so Run can classify them.
type Func func(name string, r io.Reader, w io.Writer) (Outcome, error)

// Rewrite adapts a rewrite policy. onWarn may be nil.
func Rewrite(p rewrite.Policy, onWarn func(rewrite.Warning)) Func {
	return func(name string, r io.Reader, w io.Writer) (Outcome, error) {
		res, err := rewrite.Process(r, w, p, rewrite.ProcessOptions{Name: name, OnWarning: onWarn})
		if res == nil {
			return Outcome{}, err
		}
		return Outcome{BytesIn: res.BytesIn, BytesOut: res.BytesOut, Warnings: res.Warnings}, err
	}
}

// Stream adapts a plain reader-to-writer filter such as trigraph.Encode.
// The source and sink are wrapped so a failure is attributed to the side
// that caused it.
func Stream(f func(io.Reader, io.Writer) error) Func {
	return func(name string, r io.Reader, w io.Writer) (Outcome, error) {
		src := &countingReader{r: r}
		dst := &recordingWriter{w: w}
		err := f(src, dst)
		out := Outcome{BytesIn: src.n, BytesOut: dst.n}
		switch {
		case dst.err != nil:
			return out, &rewrite.WriteError{Name: name, Err: dst.err}
		case src.err != nil:
			return out, &rewrite.ReadError{Name: name, Err: src.err}
		case err != nil:
			return out, &rewrite.ReadError{Name: name, Err: err}
		}
		return out, nil
	}
}

type countingReader struct {
	r   io.Reader
	n   int64
	err error
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	if err != nil && err != io.EOF && c.err == nil {
		c.err = err
	}
	return n, err
}

// recordingWriter remembers the first error of the underlying writer.
type recordingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (s *recordingWriter) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	n, err := s.w.Write(p)
	s.n += int64(n)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		s.err = err
	}
	return n, err
}
