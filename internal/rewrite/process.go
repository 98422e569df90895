package rewrite

import (
	"bufio"
	"errors"
	"io"

	"github.com/strongdm/ccfilter/internal/lexer"
)

// Warning is a recoverable diagnostic; the corrected output is still written.
type Warning struct {
	Name    string
	Line    int
	Column  int
	Message string
}

type ProcessOptions struct {
	// Name identifies the stream in errors and warnings; "-" when empty.
	Name string
	// OnWarning, if set, is called for each warning as it is raised.
	OnWarning func(Warning)
}

type Result struct {
	Final    lexer.State
	BytesIn  int64
	BytesOut int64
	Lines    int
	Warnings []Warning
}

type position struct{ line, col int }

// Process classifies src byte by byte with p's grammar and writes what p
// keeps to dst. A stream that ends outside Code (other than inside a line
// comment) yields a *MalformedInputError; the output produced up to that
// point is still flushed. Read and write failures are returned as
// *ReadError and *WriteError.
func Process(src io.Reader, dst io.Writer, p Policy, opts ProcessOptions) (*Result, error) {
	name := opts.Name
	if name == "" {
		name = "-"
	}
	br := bufio.NewReader(src)
	bw := bufio.NewWriter(dst)
	c := lexer.NewClassifier(p.Grammar())
	res := &Result{}

	var (
		buf  = make([]byte, 0, 64)
		cur  = position{line: 1}
		open position
		last byte
	)
	emit := func(t lexer.Transition, at position) error {
		out, warn := p.Rewrite(buf[:0], t)
		buf = out[:0]
		if len(out) > 0 {
			if _, err := bw.Write(out); err != nil {
				return &WriteError{Name: name, Err: err}
			}
			res.BytesOut += int64(len(out))
		}
		if warn != "" {
			w := Warning{Name: name, Line: at.line, Column: at.col, Message: warn}
			res.Warnings = append(res.Warnings, w)
			if opts.OnWarning != nil {
				opts.OnWarning(w)
			}
		}
		return nil
	}
	flush := func() error {
		if err := bw.Flush(); err != nil {
			return &WriteError{Name: name, Err: err}
		}
		return nil
	}

	for {
		b, err := br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if ferr := flush(); ferr != nil {
				return res, ferr
			}
			res.Final = c.State()
			return res, &ReadError{Name: name, Err: err}
		}
		res.BytesIn++
		cur.col++
		at := cur

		t := c.Step(b)
		switch {
		case t.From == lexer.Code && t.To != lexer.Code:
			open = at
		case t.From == lexer.SlashSeen && t.To.Region().IsLiteral():
			open = at
		}
		if err := emit(t, at); err != nil {
			return res, err
		}
		if b == '\n' {
			res.Lines++
			cur.line++
			cur.col = 0
		}
		last = b
	}
	if res.BytesIn > 0 && last != '\n' {
		res.Lines++
	}

	t, err := c.End()
	res.Final = c.State()
	if err != nil {
		if ferr := flush(); ferr != nil {
			return res, ferr
		}
		var ue *lexer.UnterminatedError
		if errors.As(err, &ue) {
			return res, &MalformedInputError{Name: name, State: ue.State, Line: open.line, Column: open.col}
		}
		return res, err
	}
	if err := emit(t, cur); err != nil {
		return res, err
	}
	if err := flush(); err != nil {
		return res, err
	}
	return res, nil
}
