package adoc

import "strconv"

// A TokenType is the type of a Token.
type TokenType uint32

const (
	// UnknownToken means that the line could not be classified at all.
	// The tokenizer never emits it; it is the zero value of the type.
	UnknownToken TokenType = iota
	// HeaderToken is a section or document title line, like "== Title".
	HeaderToken
	// ListItemToken is an ordered or unordered list item, like "* item".
	ListItemToken
	// DescriptionListItemToken is a "term:: description" line.
	DescriptionListItemToken
	// TableDelimiterToken opens or closes a table ("|===").
	TableDelimiterToken
	// TableRowToken is any other line starting with "|".
	TableRowToken
	// BlockQuoteDelimiterToken is a line of four or more underscores.
	BlockQuoteDelimiterToken
	// SidebarDelimiterToken is a line of four or more asterisks.
	SidebarDelimiterToken
	// ExampleDelimiterToken is a line of four or more equals signs.
	ExampleDelimiterToken
	// OpenDelimiterToken is the two-dash open block delimiter ("--").
	OpenDelimiterToken
	// VerseDelimiterToken is produced by the parser when a quote block
	// delimiter follows a [verse] attribute block; the tokenizer itself
	// never emits it.
	VerseDelimiterToken
	// LiteralDelimiterToken is a line of four or more dots ("....").
	LiteralDelimiterToken
	// PassthroughDelimiterToken is a line of four or more plus signs.
	PassthroughDelimiterToken
	// CodeBlockDelimiterToken is "----" with an optional language suffix.
	CodeBlockDelimiterToken
	// AttributeLineToken is a document attribute line, like ":name: value".
	AttributeLineToken
	// AttributeBlockLineToken is a bracketed line, like "[source,go]".
	AttributeBlockLineToken
	// AdmonitionBlockToken is "NOTE: text" and friends.
	AdmonitionBlockToken
	// TableOfContentsToken is the "toc::[...]" macro line.
	TableOfContentsToken
	// BlockMacroToken is a generic "name::target[params]" line.
	BlockMacroToken
	// TextToken is any line that matches nothing else.
	TextToken
	// EmptyLineToken is a line whose trimmed content is empty.
	EmptyLineToken
	// NewLineToken is a bare "\n".
	NewLineToken
	// EndOfFileToken terminates every token stream exactly once.
	EndOfFileToken
)

// String returns a string representation of the TokenType.
func (t TokenType) String() string {
	switch t {
	case UnknownToken:
		return "Unknown"
	case HeaderToken:
		return "Header"
	case ListItemToken:
		return "ListItem"
	case DescriptionListItemToken:
		return "DescriptionListItem"
	case TableDelimiterToken:
		return "TableDelimiter"
	case TableRowToken:
		return "TableRow"
	case BlockQuoteDelimiterToken:
		return "BlockQuoteDelimiter"
	case SidebarDelimiterToken:
		return "SidebarDelimiter"
	case ExampleDelimiterToken:
		return "ExampleDelimiter"
	case OpenDelimiterToken:
		return "OpenDelimiter"
	case VerseDelimiterToken:
		return "VerseDelimiter"
	case LiteralDelimiterToken:
		return "LiteralDelimiter"
	case PassthroughDelimiterToken:
		return "PassthroughDelimiter"
	case CodeBlockDelimiterToken:
		return "CodeBlockDelimiter"
	case AttributeLineToken:
		return "AttributeLine"
	case AttributeBlockLineToken:
		return "AttributeBlockLine"
	case AdmonitionBlockToken:
		return "AdmonitionBlock"
	case TableOfContentsToken:
		return "TableOfContents"
	case BlockMacroToken:
		return "BlockMacro"
	case TextToken:
		return "Text"
	case EmptyLineToken:
		return "EmptyLine"
	case NewLineToken:
		return "NewLine"
	case EndOfFileToken:
		return "EndOfFile"
	}
	return "Invalid(" + strconv.Itoa(int(t)) + ")"
}

// A Token is one classified lexical unit: a whole source line, a newline,
// or the end of the input. Value holds the trimmed line text ("\n" for a
// NewLineToken, empty for EndOfFileToken). Line and Column are 1-based and
// point at the first non-blank character of the line; Position is the byte
// offset of that character in the input.
type Token struct {
	Type     TokenType
	Value    string
	Line     int
	Column   int
	Position int
}

// IsBlank reports whether the token separates content without carrying any,
// that is an empty line or a bare newline.
func (t Token) IsBlank() bool {
	return t.Type == EmptyLineToken || t.Type == NewLineToken
}

// String returns a compact representation used in error messages and debug
// logging.
func (t Token) String() string {
	switch t.Type {
	case NewLineToken:
		return "NewLine"
	case EndOfFileToken:
		return "EndOfFile"
	}
	return t.Type.String() + "(" + t.Value + ")"
}
