package adoc

import (
	"regexp"
	"strings"
)

// linePatterns classifies a trimmed source line. Patterns are tried in order
// and the first match wins. Several patterns overlap (a block macro line also
// matches the description list pattern, a table delimiter also matches the
// table row pattern), so the order is part of the format definition and must
// not be rearranged.
var linePatterns = []struct {
	typ TokenType
	re  *regexp.Regexp
}{
	{HeaderToken, regexp.MustCompile(`^=+\s+.+`)},
	{ListItemToken, regexp.MustCompile(`^(\*+|\d+\.)\s+(\[[ xX]\]\s+)?.+`)},
	{TableDelimiterToken, regexp.MustCompile(`^\|===+$`)},
	{TableRowToken, regexp.MustCompile(`^\|.*$`)},
	{BlockQuoteDelimiterToken, regexp.MustCompile(`^_{4,}$`)},
	{SidebarDelimiterToken, regexp.MustCompile(`^\*{4,}$`)},
	{ExampleDelimiterToken, regexp.MustCompile(`^={4,}$`)},
	{OpenDelimiterToken, regexp.MustCompile(`^--$`)},
	{LiteralDelimiterToken, regexp.MustCompile(`^\.{4,}$`)},
	{PassthroughDelimiterToken, regexp.MustCompile(`^\+{4,}$`)},
	{AttributeLineToken, regexp.MustCompile(`^:[^:!]+!?:\s*.*$`)},
	{AttributeBlockLineToken, regexp.MustCompile(`^\[[^\]]+\]$`)},
	{CodeBlockDelimiterToken, regexp.MustCompile(`^----\w*$`)},
	{AdmonitionBlockToken, regexp.MustCompile(`^(NOTE|TIP|IMPORTANT|WARNING|CAUTION):\s*.*$`)},
	{TableOfContentsToken, regexp.MustCompile(`^toc::\s*\[.*\]$`)},
	{BlockMacroToken, regexp.MustCompile(`^\w+::[^\[]*\[[^\]]*\]$`)},
	{DescriptionListItemToken, regexp.MustCompile(`^[^:\[\]]+::\s*.*$`)},
}

// A Tokenizer converts AsciiDoc source text into a flat stream of
// line-classified tokens. It knows nothing about block nesting or semantics:
// every token is one trimmed source line, a newline, or the end of the input,
// and the parser decides what the lines mean.
type Tokenizer struct {
	src string

	// pos is the byte offset of the next character to read
	pos int

	// line and col locate pos for error reporting, both 1-based
	line int
	col  int

	// atLineStart is true until non-blank content has been consumed
	// on the current line
	atLineStart bool
}

// NewTokenizer returns a Tokenizer reading from src.
func NewTokenizer(src string) *Tokenizer {
	tz := &Tokenizer{}
	tz.Reset(src)
	return tz
}

// Reset discards all tokenizer state and starts reading src from the
// beginning: position 0, line 1, column 1.
func (tz *Tokenizer) Reset(src string) {
	tz.src = src
	tz.pos = 0
	tz.line = 1
	tz.col = 1
	tz.atLineStart = true
}

// NextToken returns the next token in the stream. After the input is
// exhausted it returns an EndOfFile token on this and every later call.
func (tz *Tokenizer) NextToken() Token {

	// Whitespace inside a line is not significant, newlines are
	tz.skipBlanks()

	if tz.pos >= len(tz.src) {
		return Token{Type: EndOfFileToken, Line: tz.line, Column: tz.col, Position: tz.pos}
	}

	if tz.src[tz.pos] == '\n' {
		tok := Token{Type: NewLineToken, Value: "\n", Line: tz.line, Column: tz.col, Position: tz.pos}
		tz.pos++
		tz.line++
		tz.col = 1
		tz.atLineStart = true
		return tok
	}

	tok := Token{Line: tz.line, Column: tz.col, Position: tz.pos}
	raw, atLineStart := tz.readRestOfLine()
	tok.Value = strings.TrimSpace(raw)

	if !atLineStart {
		// Mid-line content is never a block construct
		tok.Type = TextToken
		return tok
	}

	tok.Type = classifyLine(tok.Value)
	return tok
}

// Tokenize returns all tokens of input in order, ending in exactly one
// EndOfFile token. The sequence is not rewindable; create a new Tokenizer
// to read the input again.
func Tokenize(input string) []Token {
	tz := NewTokenizer(input)
	var toks []Token
	for {
		tok := tz.NextToken()
		toks = append(toks, tok)
		if tok.Type == EndOfFileToken {
			return toks
		}
	}
}

// skipBlanks advances over spaces and tabs, never over a newline.
func (tz *Tokenizer) skipBlanks() {
	for tz.pos < len(tz.src) {
		c := tz.src[tz.pos]
		if c != ' ' && c != '\t' {
			return
		}
		tz.pos++
		tz.col++
	}
}

// readRestOfLine consumes up to (not including) the next newline and reports
// whether the consumed text started at the beginning of its line.
func (tz *Tokenizer) readRestOfLine() (string, bool) {
	atLineStart := tz.atLineStart
	start := tz.pos
	for tz.pos < len(tz.src) && tz.src[tz.pos] != '\n' {
		tz.pos++
		tz.col++
	}
	tz.atLineStart = false
	return tz.src[start:tz.pos], atLineStart
}

// classifyLine decides the token type of one trimmed line.
func classifyLine(line string) TokenType {
	if line == "" {
		return EmptyLineToken
	}
	for _, p := range linePatterns {
		if p.re.MatchString(line) {
			return p.typ
		}
	}
	return TextToken
}
