package lexer

import "fmt"

type InputKind uint8

const (
	// InputByte matches one specific byte value.
	InputByte InputKind = iota
	// InputAny matches every byte not matched by a specific rule of the same state.
	InputAny
	// InputEOF matches the end of the stream.
	InputEOF
)

// Input is the matched input class of a Rule.
type Input struct {
	Kind InputKind
	Byte byte
}

// On returns the input class matching exactly b.
func On(b byte) Input { return Input{Kind: InputByte, Byte: b} }

var (
	Any = Input{Kind: InputAny}
	EOF = Input{Kind: InputEOF}
)

func (in Input) String() string {
	switch in.Kind {
	case InputAny:
		return "*"
	case InputEOF:
		return "EOF"
	}
	switch in.Byte {
	case '\n':
		return `'\n'`
	case '\\':
		return `'\\'`
	case '\'':
		return `'\''`
	}
	return fmt.Sprintf("%q", rune(in.Byte))
}

// Marker names a region boundary whose bytes are chosen by the policy.
type Marker uint8

const (
	MarkerNone Marker = iota
	// LineOpen is the "//" that opened a line comment.
	LineOpen
	// LineClose ends a line comment, before its newline or at end of input.
	LineClose
	// BlockOpen is the "/*" that opened a block comment.
	BlockOpen
	// BlockClose follows the "/" that closed a block comment.
	BlockClose
	// StarSlashSplit sits between a '*' and a '/' inside a line comment.
	StarSlashSplit
)

func (m Marker) String() string {
	switch m {
	case LineOpen:
		return "line-open"
	case LineClose:
		return "line-close"
	case BlockOpen:
		return "block-open"
	case BlockClose:
		return "block-close"
	case StarSlashSplit:
		return "star-slash-split"
	default:
		return "none"
	}
}

type EmitKind uint8

const (
	// EmitVerbatim emits the input byte itself.
	EmitVerbatim EmitKind = iota + 1
	// EmitLiteral emits fixed bytes, such as a held '/'.
	EmitLiteral
	// EmitMarker leaves the bytes to the policy.
	EmitMarker
)

// Emission is one output directive of a Rule. Region is the region the
// emitted bytes belong to, which is not always the region of the rule's
// state: the '/' held in SlashSeen is code, the newline ending a line comment
// is code, the '/' ending a block comment is comment.
type Emission struct {
	Kind    EmitKind
	Region  Region
	Literal []byte
	Marker  Marker
}

func (e Emission) String() string {
	switch e.Kind {
	case EmitVerbatim:
		return "self:" + e.Region.String()
	case EmitLiteral:
		return fmt.Sprintf("%q:%s", e.Literal, e.Region)
	case EmitMarker:
		return "<" + e.Marker.String() + ">:" + e.Region.String()
	default:
		return "?"
	}
}

func verbatim(r Region) Emission { return Emission{Kind: EmitVerbatim, Region: r} }

func literal(s string, r Region) Emission {
	return Emission{Kind: EmitLiteral, Region: r, Literal: []byte(s)}
}

func marker(m Marker, r Region) Emission { return Emission{Kind: EmitMarker, Region: r, Marker: m} }

// Rule is one row of a transition table. An empty Emit suppresses output.
type Rule struct {
	State   State
	Input   Input
	Next    State
	Emit    []Emission
	Warning string
}

// Transition is the outcome of feeding one byte (or end of input) to a
// Grammar. Emit aliases the grammar's table and must not be modified.
type Transition struct {
	From    State
	To      State
	Byte    byte
	EOF     bool
	Emit    []Emission
	Warning string
}

// Suppressed reports whether the transition emits nothing at all.
func (t Transition) Suppressed() bool { return len(t.Emit) == 0 }
