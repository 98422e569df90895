// Package lexer classifies C/C++ source bytes into lexical regions with a
// table-driven finite-state machine. It performs no I/O: a Grammar maps
// (state, byte) to a Transition and the caller decides what to write.
package lexer

// State is the current lexical state of one input stream.
type State uint8

const (
	Code State = iota
	StringLiteral
	StringEscape
	CharLiteral
	CharEscape
	SlashSeen
	LineComment
	LineCommentStarSeen
	BlockComment
	BlockCommentStarSeen

	numStates
)

var stateNames = [numStates]string{
	Code:                 "Code",
	StringLiteral:        "StringLiteral",
	StringEscape:         "StringEscape",
	CharLiteral:          "CharLiteral",
	CharEscape:           "CharEscape",
	SlashSeen:            "SlashSeen",
	LineComment:          "LineComment",
	LineCommentStarSeen:  "LineCommentStarSeen",
	BlockComment:         "BlockComment",
	BlockCommentStarSeen: "BlockCommentStarSeen",
}

func (s State) String() string {
	if s < numStates {
		return stateNames[s]
	}
	return "State(?)"
}

// Valid reports whether s is one of the declared states.
func (s State) Valid() bool { return s < numStates }

// Terminal reports whether a stream may end cleanly in s. Only Code is.
func (s State) Terminal() bool { return s == Code }

// Region returns the region a byte consumed in s belongs to. SlashSeen is
// reported as code: the held slash is code until a comment opener proves
// otherwise.
func (s State) Region() Region {
	switch s {
	case StringLiteral, StringEscape:
		return RegionString
	case CharLiteral, CharEscape:
		return RegionChar
	case LineComment, LineCommentStarSeen:
		return RegionLineComment
	case BlockComment, BlockCommentStarSeen:
		return RegionBlockComment
	default:
		return RegionCode
	}
}

// Describe returns a short human phrase for diagnostics, e.g. "string literal".
func (s State) Describe() string {
	switch s {
	case StringLiteral:
		return "string literal"
	case StringEscape:
		return "escape sequence in string literal"
	case CharLiteral:
		return "character literal"
	case CharEscape:
		return "escape sequence in character literal"
	case SlashSeen:
		return "dangling '/'"
	case LineComment, LineCommentStarSeen:
		return "line comment"
	case BlockComment, BlockCommentStarSeen:
		return "block comment"
	default:
		return "code"
	}
}

// Region is a kind of maximal run of input classified under related states.
type Region uint8

const (
	RegionCode Region = iota
	RegionString
	RegionChar
	RegionLineComment
	RegionBlockComment
)

func (r Region) String() string {
	switch r {
	case RegionCode:
		return "code"
	case RegionString:
		return "string"
	case RegionChar:
		return "char"
	case RegionLineComment:
		return "line-comment"
	case RegionBlockComment:
		return "block-comment"
	default:
		return "region(?)"
	}
}

// IsComment reports whether r is one of the two comment regions.
func (r Region) IsComment() bool {
	return r == RegionLineComment || r == RegionBlockComment
}

// IsLiteral reports whether r is a string or character literal.
func (r Region) IsLiteral() bool {
	return r == RegionString || r == RegionChar
}
