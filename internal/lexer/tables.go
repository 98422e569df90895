package lexer

// SplitWarning is raised when a "*/" inside a line comment is split so that
// converting the comment to block syntax does not close it early.
const SplitWarning = "converted a '*/' inside a line comment to '* /'"

var (
	code    = verbatim(RegionCode)
	str     = verbatim(RegionString)
	chr     = verbatim(RegionChar)
	line    = verbatim(RegionLineComment)
	block   = verbatim(RegionBlockComment)
	heldDiv = literal("/", RegionCode)
)

// Full is the comment-aware grammar of C/C++ source.
var Full = mustGrammar("full", []Rule{
	{State: Code, Input: On('"'), Next: StringLiteral, Emit: []Emission{str}},
	{State: Code, Input: On('\''), Next: CharLiteral, Emit: []Emission{chr}},
	{State: Code, Input: On('/'), Next: SlashSeen},
	{State: Code, Input: Any, Next: Code, Emit: []Emission{code}},
	{State: Code, Input: EOF, Next: Code},

	{State: StringLiteral, Input: On('\\'), Next: StringEscape, Emit: []Emission{str}},
	{State: StringLiteral, Input: On('"'), Next: Code, Emit: []Emission{str}},
	{State: StringLiteral, Input: Any, Next: StringLiteral, Emit: []Emission{str}},

	{State: StringEscape, Input: Any, Next: StringLiteral, Emit: []Emission{str}},

	{State: CharLiteral, Input: On('\\'), Next: CharEscape, Emit: []Emission{chr}},
	{State: CharLiteral, Input: On('\''), Next: Code, Emit: []Emission{chr}},
	{State: CharLiteral, Input: Any, Next: CharLiteral, Emit: []Emission{chr}},

	{State: CharEscape, Input: Any, Next: CharLiteral, Emit: []Emission{chr}},

	{State: SlashSeen, Input: On('"'), Next: StringLiteral, Emit: []Emission{heldDiv, str}},
	{State: SlashSeen, Input: On('\''), Next: CharLiteral, Emit: []Emission{heldDiv, chr}},
	{State: SlashSeen, Input: On('/'), Next: LineComment, Emit: []Emission{marker(LineOpen, RegionLineComment)}},
	{State: SlashSeen, Input: On('*'), Next: BlockComment, Emit: []Emission{marker(BlockOpen, RegionBlockComment)}},
	{State: SlashSeen, Input: Any, Next: Code, Emit: []Emission{heldDiv, code}},

	{State: LineComment, Input: On('*'), Next: LineCommentStarSeen, Emit: []Emission{line}},
	{State: LineComment, Input: On('\n'), Next: Code, Emit: []Emission{marker(LineClose, RegionLineComment), code}},
	{State: LineComment, Input: Any, Next: LineComment, Emit: []Emission{line}},
	{State: LineComment, Input: EOF, Next: Code, Emit: []Emission{marker(LineClose, RegionLineComment)}},

	{State: LineCommentStarSeen, Input: On('/'), Next: LineComment, Emit: []Emission{marker(StarSlashSplit, RegionLineComment), line}, Warning: SplitWarning},
	{State: LineCommentStarSeen, Input: On('*'), Next: LineCommentStarSeen, Emit: []Emission{line}},
	{State: LineCommentStarSeen, Input: On('\n'), Next: Code, Emit: []Emission{marker(LineClose, RegionLineComment), code}},
	{State: LineCommentStarSeen, Input: Any, Next: LineComment, Emit: []Emission{line}},
	{State: LineCommentStarSeen, Input: EOF, Next: Code, Emit: []Emission{marker(LineClose, RegionLineComment)}},

	{State: BlockComment, Input: On('*'), Next: BlockCommentStarSeen, Emit: []Emission{block}},
	{State: BlockComment, Input: Any, Next: BlockComment, Emit: []Emission{block}},

	{State: BlockCommentStarSeen, Input: On('/'), Next: Code, Emit: []Emission{block, marker(BlockClose, RegionBlockComment)}},
	{State: BlockCommentStarSeen, Input: On('*'), Next: BlockCommentStarSeen, Emit: []Emission{block}},
	{State: BlockCommentStarSeen, Input: Any, Next: BlockComment, Emit: []Emission{block}},
})

// Literals is the narrower grammar of the literal printer. It knows quotes
// and escapes only; slashes are ordinary code.
var Literals = mustGrammar("literals", []Rule{
	{State: Code, Input: On('"'), Next: StringLiteral, Emit: []Emission{str}},
	{State: Code, Input: On('\''), Next: CharLiteral, Emit: []Emission{chr}},
	{State: Code, Input: Any, Next: Code, Emit: []Emission{code}},
	{State: Code, Input: EOF, Next: Code},

	{State: StringLiteral, Input: On('\\'), Next: StringEscape, Emit: []Emission{str}},
	{State: StringLiteral, Input: On('"'), Next: Code, Emit: []Emission{str}},
	{State: StringLiteral, Input: Any, Next: StringLiteral, Emit: []Emission{str}},

	{State: StringEscape, Input: Any, Next: StringLiteral, Emit: []Emission{str}},

	{State: CharLiteral, Input: On('\\'), Next: CharEscape, Emit: []Emission{chr}},
	{State: CharLiteral, Input: On('\''), Next: Code, Emit: []Emission{chr}},
	{State: CharLiteral, Input: Any, Next: CharLiteral, Emit: []Emission{chr}},

	{State: CharEscape, Input: Any, Next: CharLiteral, Emit: []Emission{chr}},
})
