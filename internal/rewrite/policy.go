// Package rewrite turns the classifier's transitions into output bytes. A
// Policy decides what each transition keeps; Process drives one stream.
package rewrite

import (
	"fmt"
	"strings"

	"github.com/strongdm/ccfilter/internal/lexer"
)

// Policy maps transitions to output. Implementations are immutable values so
// one policy can serve any number of concurrent streams.
type Policy interface {
	Name() string
	Grammar() *lexer.Grammar
	// Rewrite appends the bytes kept for t to dst and returns an optional
	// warning message.
	Rewrite(dst []byte, t lexer.Transition) ([]byte, string)
}

// Replacement selects what a stripped block comment becomes.
type Replacement int

const (
	ReplaceSpace Replacement = iota
	ReplaceNewline
	ReplaceNone
)

func (r Replacement) String() string {
	switch r {
	case ReplaceSpace:
		return "space"
	case ReplaceNewline:
		return "newline"
	case ReplaceNone:
		return "none"
	default:
		return fmt.Sprintf("replacement(%d)", int(r))
	}
}

// ParseReplacement accepts "space", "newline" or "none"; empty means space.
func ParseReplacement(s string) (Replacement, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "space":
		return ReplaceSpace, nil
	case "newline":
		return ReplaceNewline, nil
	case "none":
		return ReplaceNone, nil
	default:
		return ReplaceSpace, fmt.Errorf("invalid comment replacement %q (want space|newline|none)", s)
	}
}

// Keep selects which side of the source Strip keeps.
type Keep int

const (
	KeepCode Keep = iota
	KeepComments
)

// appendRaw appends the bytes of a verbatim or literal emission.
func appendRaw(dst []byte, t lexer.Transition, e lexer.Emission) []byte {
	switch e.Kind {
	case lexer.EmitVerbatim:
		if !t.EOF {
			dst = append(dst, t.Byte)
		}
	case lexer.EmitLiteral:
		dst = append(dst, e.Literal...)
	}
	return dst
}

func isNewline(t lexer.Transition, e lexer.Emission) bool {
	return e.Kind == lexer.EmitVerbatim && !t.EOF && t.Byte == '\n'
}

// Convert rewrites line comments as block comments.
type Convert struct{}

func (Convert) Name() string { return "convert" }

func (Convert) Grammar() *lexer.Grammar { return lexer.Full }

func (Convert) Rewrite(dst []byte, t lexer.Transition) ([]byte, string) {
	var warn string
	for _, e := range t.Emit {
		if e.Kind != lexer.EmitMarker {
			dst = appendRaw(dst, t, e)
			continue
		}
		switch e.Marker {
		case lexer.LineOpen, lexer.BlockOpen:
			dst = append(dst, "/*"...)
		case lexer.LineClose:
			dst = append(dst, " */"...)
		case lexer.StarSlashSplit:
			dst = append(dst, ' ')
			warn = t.Warning
		}
	}
	return dst, warn
}

// Strip removes comments (KeepCode) or code (KeepComments).
//
// Keeping code, each block comment is replaced per Replacement and, with
// PreserveNewlines, the newlines inside it are kept too. A line comment is
// dropped up to but excluding its newline.
//
// Keeping comments, every comment is written with its delimiters and ends
// with a newline. With PreserveNewlines the newlines of the code are kept
// instead, so every comment stays on its original line.
type Strip struct {
	Keep             Keep
	Replacement      Replacement
	PreserveNewlines bool
}

func (p Strip) Name() string {
	if p.Keep == KeepComments {
		return "strip-code"
	}
	return "strip-comments"
}

func (Strip) Grammar() *lexer.Grammar { return lexer.Full }

func (p Strip) Rewrite(dst []byte, t lexer.Transition) ([]byte, string) {
	for _, e := range t.Emit {
		if p.Keep == KeepComments {
			dst = p.keepComments(dst, t, e)
		} else {
			dst = p.keepCode(dst, t, e)
		}
	}
	return dst, ""
}

func (p Strip) keepCode(dst []byte, t lexer.Transition, e lexer.Emission) []byte {
	if e.Kind == lexer.EmitMarker {
		if e.Marker == lexer.BlockClose {
			switch p.Replacement {
			case ReplaceSpace:
				dst = append(dst, ' ')
			case ReplaceNewline:
				dst = append(dst, '\n')
			}
		}
		return dst
	}
	if !e.Region.IsComment() {
		return appendRaw(dst, t, e)
	}
	if p.PreserveNewlines && isNewline(t, e) {
		dst = append(dst, '\n')
	}
	return dst
}

func (p Strip) keepComments(dst []byte, t lexer.Transition, e lexer.Emission) []byte {
	if e.Kind == lexer.EmitMarker {
		switch e.Marker {
		case lexer.LineOpen:
			dst = append(dst, "//"...)
		case lexer.BlockOpen:
			dst = append(dst, "/*"...)
		case lexer.LineClose, lexer.BlockClose:
			if !p.PreserveNewlines {
				dst = append(dst, '\n')
			}
		}
		return dst
	}
	if e.Region.IsComment() {
		return appendRaw(dst, t, e)
	}
	if p.PreserveNewlines && isNewline(t, e) {
		dst = append(dst, '\n')
	}
	return dst
}

// Strings prints the payload of every string literal, one per line, and only
// validates the rest. By default it runs over the Literals grammar, where
// comments are ordinary code; SkipComments switches to the full grammar so
// quotes inside comments are ignored.
type Strings struct {
	SkipComments bool
}

func (Strings) Name() string { return "strings" }

func (p Strings) Grammar() *lexer.Grammar {
	if p.SkipComments {
		return lexer.Full
	}
	return lexer.Literals
}

func (Strings) Rewrite(dst []byte, t lexer.Transition) ([]byte, string) {
	for _, e := range t.Emit {
		if e.Region != lexer.RegionString {
			continue
		}
		inside := t.From == lexer.StringLiteral || t.From == lexer.StringEscape
		switch {
		case !inside:
			// opening quote
		case t.From == lexer.StringLiteral && t.To == lexer.Code:
			dst = append(dst, '\n')
		default:
			dst = appendRaw(dst, t, e)
		}
	}
	return dst, ""
}

// Passthrough writes the input unchanged; it is used to validate input.
type Passthrough struct{}

func (Passthrough) Name() string { return "check" }

func (Passthrough) Grammar() *lexer.Grammar { return lexer.Full }

func (Passthrough) Rewrite(dst []byte, t lexer.Transition) ([]byte, string) {
	for _, e := range t.Emit {
		if e.Kind != lexer.EmitMarker {
			dst = appendRaw(dst, t, e)
			continue
		}
		switch e.Marker {
		case lexer.LineOpen:
			dst = append(dst, "//"...)
		case lexer.BlockOpen:
			dst = append(dst, "/*"...)
		}
	}
	return dst, ""
}

// Options parameterizes ByName.
type Options struct {
	Replacement      Replacement
	PreserveNewlines bool
	SkipComments     bool
}

// PolicyNames lists the names ByName accepts.
var PolicyNames = []string{"convert", "strip-comments", "strip-code", "strings", "check"}

// ByName returns the named policy configured with opts.
func ByName(name string, opts Options) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "convert":
		return Convert{}, nil
	case "strip-comments", "strip":
		return Strip{Keep: KeepCode, Replacement: opts.Replacement, PreserveNewlines: opts.PreserveNewlines}, nil
	case "strip-code":
		return Strip{Keep: KeepComments, PreserveNewlines: opts.PreserveNewlines}, nil
	case "strings":
		return Strings{SkipComments: opts.SkipComments}, nil
	case "check", "passthrough":
		return Passthrough{}, nil
	default:
		return nil, fmt.Errorf("unknown policy %q (want %s)", name, strings.Join(PolicyNames, "|"))
	}
}
