// Package adoc parses AsciiDoc markup into a typed document tree and
// renders it to HTML. The parser is hand-rolled: a tokenizer classifies
// source lines with ordered patterns, and a recursive descent pass builds
// the tree, expanding include directives along the way.
package adoc

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/hesusruiz/adoc/textedit"
)

// Stricter per-construct forms. A line can match a classification pattern
// in the tokenizer and still fail one of these; that is a structural error
// reported with line and column.
var (
	reHeaderLine     = regexp.MustCompile(`^(=+)\s+(.+)$`)
	reListItemLine   = regexp.MustCompile(`^(\*+|\d+\.)\s+(\[[ xX]\]\s+)?(.+)$`)
	reDescItemLine   = regexp.MustCompile(`^([^:\[\]]+?)::\s*(.*)$`)
	reAttributeLine  = regexp.MustCompile(`^:([^:!]+)(!?):\s*(.*)$`)
	reAdmonitionLine = regexp.MustCompile(`^(NOTE|TIP|IMPORTANT|WARNING|CAUTION):\s*(.*)$`)
	reTocLine        = regexp.MustCompile(`^toc::\s*\[(.*)\]$`)
	reBlockMacroLine = regexp.MustCompile(`^(\w+)::([^\[]*)\[([^\]]*)\]$`)
	reAuthorLine     = regexp.MustCompile(`^([^<]+?)(?:\s*<([^>]+)>)?$`)
	reRevisionLine   = regexp.MustCompile(`^v?(\d[\w.]*)(?:,\s*(.*))?$`)
	reOrderedMarker  = regexp.MustCompile(`^\d+`)
)

// Parse parses an AsciiDoc source text into a Document.
func Parse(text string) (*Document, error) {
	return ParseWithOptions(text, Options{})
}

// ParseWithOptions parses an AsciiDoc source text into a Document using the
// given options.
func ParseWithOptions(text string, opts Options) (*Document, error) {
	if len(text) == 0 {
		return nil, ErrNoContent
	}
	ctx := NewParseContext(text, opts)
	return parseDocument(ctx)
}

// ParseFile reads and parses one source file. The directory of the file
// becomes the base path for relative includes.
func ParseFile(path string) (*Document, error) {
	return ParseFileWithOptions(path, Options{})
}

// ParseFileWithOptions reads and parses one source file using the given
// options.
func ParseFileWithOptions(path string, opts Options) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, ErrNoContent
	}
	if opts.BasePath == "" {
		opts.BasePath = filepath.Dir(path)
	}

	ctx := NewParseContext(string(data), opts)
	ctx.CurrentFilePath = path
	if abs, err := filepath.Abs(path); err == nil {
		ctx.IncludeStack = []string{abs}
	}
	return parseDocument(ctx)
}

// ParseElement parses the first element of a source fragment in isolation.
// It returns nil when the fragment holds nothing but blank lines.
func ParseElement(text string) (Element, error) {
	if len(text) == 0 {
		return nil, ErrNoContent
	}
	ctx := NewParseContext(text, Options{})
	skipBlankLines(ctx)
	return parseElement(ctx)
}

// parseDocument is the document-level driver: it consumes the whole token
// stream, handling the document header and attribute lines itself and
// sending everything else through the dispatcher.
func parseDocument(ctx *ParseContext) (*Document, error) {
	doc := &Document{Header: &Header{Attributes: Attributes{}}}

	skipBlankLines(ctx)

	// A single '=' title as the first content line opens the document
	// header; deeper titles are ordinary sections
	if ctx.CurrentToken.Type == HeaderToken && headerLevel(ctx.CurrentToken.Value) == 1 {
		if err := parseDocumentHeader(ctx, doc); err != nil {
			return nil, err
		}
	}

	for !ctx.AtEOF() {
		if ctx.CurrentToken.Type == AttributeLineToken {
			if err := parseAttributeLine(ctx); err != nil {
				return nil, err
			}
			continue
		}
		el, err := parseElement(ctx)
		if err != nil {
			return nil, err
		}
		if el != nil {
			AddChild(doc, el)
		}
	}

	populateTableOfContents(doc)

	// The document records the attributes in effect when parsing finished
	for name, value := range ctx.GlobalAttributes {
		doc.SetAttribute(name, value)
		doc.Header.Attributes[name] = value
	}

	ctx.logger.Debugw("document parsed",
		"file", ctx.CurrentFilePath,
		"elements", len(doc.Elements()),
		"attributes", len(ctx.GlobalAttributes))
	return doc, nil
}

// headerLevel counts the leading '=' characters of a header line.
func headerLevel(line string) int {
	n := 0
	for n < len(line) && line[n] == '=' {
		n++
	}
	return n
}

// parseDocumentHeader consumes the title line and, when they follow with
// no intervening blank line, the author line ("Name <email>") and the
// revision line ("v1.0, 2024-05-01").
func parseDocumentHeader(ctx *ParseContext, doc *Document) error {
	tok := ctx.CurrentToken
	m := reHeaderLine.FindStringSubmatch(tok.Value)
	if m == nil {
		return parseErrorf(ctx.CurrentFilePath, tok, "malformed title line %q", tok.Value)
	}
	doc.Header.Title = strings.TrimSpace(m[2])
	ctx.Advance()

	if !ctx.Accept(NewLineToken) || ctx.CurrentToken.Type != TextToken {
		return nil
	}
	a := reAuthorLine.FindStringSubmatch(ctx.CurrentToken.Value)
	if a == nil {
		// Not an author line; leave it for the document body
		return nil
	}
	doc.Header.Author = strings.TrimSpace(a[1])
	doc.Header.Email = a[2]
	ctx.Advance()

	if !ctx.Accept(NewLineToken) || ctx.CurrentToken.Type != TextToken {
		return nil
	}
	if r := reRevisionLine.FindStringSubmatch(ctx.CurrentToken.Value); r != nil {
		doc.Header.Revision = r[1]
		doc.Header.Date = strings.TrimSpace(r[2])
		ctx.Advance()
	}
	return nil
}

// skipBlankLines advances over empty lines and newlines.
func skipBlankLines(ctx *ParseContext) {
	for ctx.CurrentToken.IsBlank() {
		ctx.Advance()
	}
}

// parseElement is the per-token dispatcher. It returns the parsed element,
// or nil for tokens that produce none (blank lines, attribute lines,
// anything unrecognized).
func parseElement(ctx *ParseContext) (Element, error) {
	switch ctx.CurrentToken.Type {
	case HeaderToken:
		return parseSectionTitle(ctx)
	case ListItemToken:
		return parseList(ctx)
	case DescriptionListItemToken:
		return parseDescriptionList(ctx)
	case TableDelimiterToken:
		return parseTable(ctx)
	case BlockQuoteDelimiterToken:
		return parseBlockQuote(ctx, "", "")
	case VerseDelimiterToken:
		return parseVerse(ctx, "", "")
	case SidebarDelimiterToken:
		return parseSidebar(ctx)
	case ExampleDelimiterToken:
		return parseExample(ctx)
	case OpenDelimiterToken:
		return parseOpen(ctx, "")
	case LiteralDelimiterToken:
		return parseLiteral(ctx, "")
	case PassthroughDelimiterToken:
		return parsePassthrough(ctx, nil)
	case CodeBlockDelimiterToken:
		return parseCodeBlock(ctx, "")
	case AttributeLineToken:
		return nil, parseAttributeLine(ctx)
	case AttributeBlockLineToken:
		return parseAttributeBlock(ctx)
	case AdmonitionBlockToken:
		return parseAdmonition(ctx)
	case TableOfContentsToken:
		return parseTableOfContents(ctx)
	case BlockMacroToken:
		return parseBlockMacro(ctx)
	case TextToken:
		return parseParagraph(ctx)
	case EmptyLineToken, NewLineToken:
		ctx.Advance()
		return nil, nil
	case EndOfFileToken:
		return nil, nil
	}

	// Unknown tokens are skipped, not rejected
	ctx.Advance()
	return nil, nil
}

// parseSectionTitle handles "== Title" and deeper. The section gets a
// generated id attribute so anchors and the table of contents can point
// at it.
func parseSectionTitle(ctx *ParseContext) (Element, error) {
	tok := ctx.CurrentToken
	m := reHeaderLine.FindStringSubmatch(tok.Value)
	if m == nil {
		return nil, parseErrorf(ctx.CurrentFilePath, tok, "malformed section title %q", tok.Value)
	}
	ctx.Advance()

	level := len(m[1]) - 1
	if level < 1 {
		level = 1
	}
	sec := &Section{Title: strings.TrimSpace(m[2]), Level: level}
	sec.SetAttribute("id", generateID(sec.Title))
	return sec, nil
}

// parseList gathers consecutive list item lines into one list. The list
// type and start number come from the first item's marker; blank lines
// between items are skipped.
func parseList(ctx *ParseContext) (Element, error) {
	list := &List{Type: Unordered}

	first := true
	for ctx.CurrentToken.Type == ListItemToken {
		tok := ctx.CurrentToken
		m := reListItemLine.FindStringSubmatch(tok.Value)
		if m == nil {
			return nil, parseErrorf(ctx.CurrentFilePath, tok, "malformed list item %q", tok.Value)
		}
		ctx.Advance()

		if first {
			first = false
			if d := reOrderedMarker.FindString(m[1]); d != "" {
				list.Type = Ordered
				list.StartNumber, _ = strconv.Atoi(d)
			}
		}

		item := &ListItem{
			Content:    strings.TrimSpace(m[3]),
			IsCheckbox: m[2] != "",
			IsChecked:  strings.ContainsAny(m[2], "xX"),
		}
		for _, span := range ParseInlineText(ctx, item.Content) {
			AddChild(item, span)
		}
		AddChild(list, item)

		skipBlankLines(ctx)
	}
	return list, nil
}

// parseDescriptionList gathers consecutive "term:: description" lines.
// An empty description is still a valid item.
func parseDescriptionList(ctx *ParseContext) (Element, error) {
	list := &DescriptionList{Type: Definition}

	for ctx.CurrentToken.Type == DescriptionListItemToken {
		tok := ctx.CurrentToken
		m := reDescItemLine.FindStringSubmatch(tok.Value)
		if m == nil {
			return nil, parseErrorf(ctx.CurrentFilePath, tok, "malformed description list item %q", tok.Value)
		}
		ctx.Advance()

		AddChild(list, &DescriptionListItem{
			Term:        strings.TrimSpace(m[1]),
			Description: strings.TrimSpace(m[2]),
		})
		skipBlankLines(ctx)
	}
	return list, nil
}

// parseTable consumes rows between "|===" delimiters. Cell counts are not
// validated against each other and no header row is distinguished.
func parseTable(ctx *ParseContext) (Element, error) {
	ctx.Advance() // opening |===
	table := &Table{}

	for !ctx.AtEOF() && ctx.CurrentToken.Type != TableDelimiterToken {
		if ctx.CurrentToken.Type == TableRowToken {
			AddChild(table, parseTableRow(ctx.CurrentToken.Value))
		}
		ctx.Advance()
	}
	ctx.Accept(TableDelimiterToken) // closing |===, absent at EOF
	return table, nil
}

// parseTableRow splits one "|a |b |c" line into cells. The leading '|' is
// stripped and trailing empty fragments are dropped; inner empty cells
// survive.
func parseTableRow(line string) *TableRow {
	parts := strings.Split(line, "|")
	if len(parts) > 0 && parts[0] == "" {
		parts = parts[1:]
	}
	for len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}

	row := &TableRow{}
	for _, part := range parts {
		AddChild(row, &TableCell{Content: strings.TrimSpace(part), ColSpan: 1, RowSpan: 1})
	}
	return row
}

// parseBlockQuote accumulates raw lines between "____" delimiters.
func parseBlockQuote(ctx *ParseContext, attribution, cite string) (Element, error) {
	ctx.Advance() // opening ____
	content := collectRawLines(ctx, BlockQuoteDelimiterToken)
	return &BlockQuote{
		Content:     substituteAttributes(ctx, content),
		Attribution: attribution,
		Cite:        cite,
	}, nil
}

// parseVerse accumulates raw lines of a "[verse]" styled quote block,
// preserving line breaks.
func parseVerse(ctx *ParseContext, author, citation string) (Element, error) {
	ctx.Advance() // opening delimiter, re-tagged from the quote form
	content := collectRawLines(ctx, BlockQuoteDelimiterToken)
	return &Verse{
		Content:  substituteAttributes(ctx, content),
		Author:   author,
		Citation: citation,
	}, nil
}

// parseSidebar parses nested block elements between "****" delimiters.
func parseSidebar(ctx *ParseContext) (Element, error) {
	ctx.Advance()
	sb := &Sidebar{}
	if err := parseNestedBlocks(ctx, sb, SidebarDelimiterToken); err != nil {
		return nil, err
	}
	return sb, nil
}

// parseExample parses nested block elements between "====" delimiters.
func parseExample(ctx *ParseContext) (Element, error) {
	ctx.Advance()
	ex := &Example{}
	if err := parseNestedBlocks(ctx, ex, ExampleDelimiterToken); err != nil {
		return nil, err
	}
	return ex, nil
}

// parseOpen parses nested block elements between "--" delimiters.
// masquerade carries the alternate role declared by a preceding style
// attribute, such as "sidebar".
func parseOpen(ctx *ParseContext, masquerade string) (Element, error) {
	ctx.Advance()
	open := &Open{MasqueradeType: masquerade}
	if err := parseNestedBlocks(ctx, open, OpenDelimiterToken); err != nil {
		return nil, err
	}
	return open, nil
}

// parseNestedBlocks runs the dispatcher until the closing delimiter,
// attaching every produced element to parent. Reaching EOF first is
// tolerated: the accumulated children stand.
func parseNestedBlocks(ctx *ParseContext, parent Element, closing TokenType) error {
	for !ctx.AtEOF() {
		if ctx.CurrentToken.Type == closing {
			ctx.Advance()
			return nil
		}
		if ctx.CurrentToken.IsBlank() {
			ctx.Advance()
			continue
		}
		el, err := parseElement(ctx)
		if err != nil {
			return err
		}
		if el != nil {
			AddChild(parent, el)
		}
	}
	return nil
}

// parseLiteral accumulates raw lines between "...." delimiters.
func parseLiteral(ctx *ParseContext, title string) (Element, error) {
	ctx.Advance()
	return &Literal{Content: collectRawLines(ctx, LiteralDelimiterToken), Title: title}, nil
}

// parseListing accumulates raw lines of a "[listing]" styled "----" block.
func parseListing(ctx *ParseContext, title string) (Element, error) {
	ctx.Advance()
	return &Listing{Content: collectRawLines(ctx, CodeBlockDelimiterToken), Title: title}, nil
}

// parsePassthrough accumulates raw lines between "++++" delimiters.
func parsePassthrough(ctx *ParseContext, substitutions []string) (Element, error) {
	ctx.Advance()
	return &Passthrough{
		Content:       collectRawLines(ctx, PassthroughDelimiterToken),
		Substitutions: substitutions,
	}, nil
}

// parseCodeBlock accumulates raw lines between "----" delimiters. The
// language comes from a preceding "[source,lang]" attribute block, or from
// a suffix on the delimiter itself ("----go").
func parseCodeBlock(ctx *ParseContext, language string) (Element, error) {
	if language == "" {
		language = strings.TrimLeft(ctx.CurrentToken.Value, "-")
	}
	ctx.Advance()
	return &CodeBlock{Content: collectRawLines(ctx, CodeBlockDelimiterToken), Language: language}, nil
}

// collectRawLines joins the raw text of every line until the closing
// delimiter or EOF, preserving blank lines inside the block. The closing
// delimiter is consumed; a missing one is tolerated.
func collectRawLines(ctx *ParseContext, closing TokenType) string {
	var lines []string
	newlines := 0
	for !ctx.AtEOF() && ctx.CurrentToken.Type != closing {
		tok := ctx.CurrentToken
		ctx.Advance()
		switch tok.Type {
		case NewLineToken, EmptyLineToken:
			newlines++
		default:
			for i := 1; i < newlines && len(lines) > 0; i++ {
				lines = append(lines, "")
			}
			newlines = 0
			lines = append(lines, tok.Value)
		}
	}
	ctx.Accept(closing)
	return strings.Join(lines, "\n")
}

// parseAttributeLine applies one ":name: value" line to the document-wide
// attribute table. ":name:" sets the boolean true value, ":name!:" the
// boolean false value.
func parseAttributeLine(ctx *ParseContext) error {
	tok := ctx.CurrentToken
	m := reAttributeLine.FindStringSubmatch(tok.Value)
	if m == nil {
		return parseErrorf(ctx.CurrentFilePath, tok, "malformed attribute line %q", tok.Value)
	}
	ctx.Advance()

	value := strings.TrimSpace(m[3])
	switch {
	case m[2] == "!":
		value = "false"
	case value == "":
		value = "true"
	}
	ctx.SetAttribute(strings.TrimSpace(m[1]), value)
	return nil
}

// parseAttributeBlock handles a "[...]" line. Style keywords redirect into
// the block form they announce; "[#id]" defines an anchor; anything else
// becomes attributes of the next parsed element.
func parseAttributeBlock(ctx *ParseContext) (Element, error) {
	tok := ctx.CurrentToken
	inner := strings.TrimSuffix(strings.TrimPrefix(tok.Value, "["), "]")
	parts := SplitMacroParameters(inner)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	keyword := parts[0]

	if strings.HasPrefix(keyword, "#") {
		ctx.Advance()
		a := &Anchor{Id: strings.TrimPrefix(keyword, "#")}
		if len(parts) > 1 {
			a.Label = parts[1]
		}
		return a, nil
	}

	if _, ok := admonitionTypes[keyword]; ok {
		return parseAdmonitionBlockStyle(ctx, keyword)
	}

	ctx.Advance()
	skipBlankLines(ctx)

	kw := strings.ToLower(keyword)
	next := ctx.CurrentToken.Type
	switch {
	case kw == "quote" && next == BlockQuoteDelimiterToken:
		return parseBlockQuote(ctx, positional(parts, 1), positional(parts, 2))
	case kw == "verse" && next == BlockQuoteDelimiterToken:
		ctx.CurrentToken.Type = VerseDelimiterToken
		return parseVerse(ctx, positional(parts, 1), positional(parts, 2))
	case kw == "literal" && next == LiteralDelimiterToken:
		return parseLiteral(ctx, namedParams(parts)["title"])
	case kw == "listing" && next == CodeBlockDelimiterToken:
		return parseListing(ctx, namedParams(parts)["title"])
	case kw == "source" && next == CodeBlockDelimiterToken:
		return parseCodeBlock(ctx, positional(parts, 1))
	case kw == "d2" && next == CodeBlockDelimiterToken:
		return parseCodeBlock(ctx, "d2")
	case kw == "pass" && next == PassthroughDelimiterToken:
		return parsePassthrough(ctx, parseSubstitutions(namedParams(parts)["subs"]))
	case (kw == "sidebar" || kw == "example") && next == OpenDelimiterToken:
		return parseOpen(ctx, kw)
	}

	// No redirect applies: the bracket content becomes attributes of
	// whatever element follows
	el, err := parseElement(ctx)
	if el != nil {
		el.SetAttribute("style", keyword)
		for name, value := range namedParams(parts) {
			el.SetAttribute(name, value)
		}
	}
	return el, err
}

// positional returns the i-th positional part of an attribute block, or "".
func positional(parts []string, i int) string {
	if i >= len(parts) {
		return ""
	}
	if _, _, ok := splitKeyValue(parts[i]); ok {
		return ""
	}
	return parts[i]
}

// namedParams collects the "key=value" parts of an attribute block.
func namedParams(parts []string) Attributes {
	named := Attributes{}
	for _, part := range parts[1:] {
		if key, value, ok := splitKeyValue(part); ok {
			named[key] = value
		}
	}
	return named
}

// parseSubstitutions splits a "subs=a+b" value into its step names.
func parseSubstitutions(subs string) []string {
	if subs == "" {
		return nil
	}
	var steps []string
	for _, s := range strings.Split(subs, "+") {
		if s = strings.TrimSpace(s); s != "" {
			steps = append(steps, s)
		}
	}
	return steps
}

// parseAdmonition handles the single-line "NOTE: text" form.
func parseAdmonition(ctx *ParseContext) (Element, error) {
	tok := ctx.CurrentToken
	m := reAdmonitionLine.FindStringSubmatch(tok.Value)
	if m == nil {
		return nil, parseErrorf(ctx.CurrentFilePath, tok, "malformed admonition %q", tok.Value)
	}
	ctx.Advance()

	adm := &Admonition{Type: admonitionTypes[m[1]], Content: substituteAttributes(ctx, strings.TrimSpace(m[2]))}
	for _, span := range ParseInlineText(ctx, adm.Content) {
		AddChild(adm, span)
	}
	return adm, nil
}

// parseAdmonitionBlockStyle handles the "[NOTE]" block form: a following
// "====" block contributes nested elements, a following paragraph becomes
// the admonition text.
func parseAdmonitionBlockStyle(ctx *ParseContext, keyword string) (Element, error) {
	adm := &Admonition{Type: admonitionTypes[keyword]}
	ctx.Advance()
	skipBlankLines(ctx)

	switch ctx.CurrentToken.Type {
	case ExampleDelimiterToken:
		ctx.Advance()
		if err := parseNestedBlocks(ctx, adm, ExampleDelimiterToken); err != nil {
			return nil, err
		}
	case TextToken:
		para, err := parseParagraph(ctx)
		if err != nil {
			return nil, err
		}
		if p, ok := para.(*Paragraph); ok {
			adm.Content = p.Content
		}
		AddChild(adm, para)
	}
	return adm, nil
}

// parseTableOfContents handles a "toc::[...]" line. Entries are filled in
// after the document pass, when all sections are known.
func parseTableOfContents(ctx *ParseContext) (Element, error) {
	tok := ctx.CurrentToken
	m := reTocLine.FindStringSubmatch(tok.Value)
	if m == nil {
		return nil, parseErrorf(ctx.CurrentFilePath, tok, "malformed table of contents macro %q", tok.Value)
	}
	ctx.Advance()

	params := ParseMacroParameters(m[1])
	toc := &TableOfContents{Title: "Table of Contents", MaxDepth: 3}
	if t := params["title"]; t != "" {
		toc.Title = t
	}
	if n, err := strconv.Atoi(params["levels"]); err == nil && n > 0 {
		toc.MaxDepth = n
	}
	return toc, nil
}

// parseBlockMacro handles a "name::target[params]" line. Include macros
// are expanded in place; every other name produces its macro node.
func parseBlockMacro(ctx *ParseContext) (Element, error) {
	tok := ctx.CurrentToken
	m := reBlockMacroLine.FindStringSubmatch(tok.Value)
	if m == nil {
		return nil, parseErrorf(ctx.CurrentFilePath, tok, "malformed block macro %q", tok.Value)
	}
	ctx.Advance()

	el := newMacroElement(m[1], strings.TrimSpace(m[2]), m[3], MacroBlock)
	if inc, ok := el.(*IncludeMacro); ok {
		return expandInclude(ctx, inc)
	}
	return el, nil
}

// expandInclude wraps the include result so the include site always yields
// at most one node: none leaves the unresolved macro as a placeholder,
// several get a level 0 container section.
func expandInclude(ctx *ParseContext, inc *IncludeMacro) (Element, error) {
	els, err := processInclude(ctx, inc, ctx.basePath, ctx.IncludeStack)
	if err != nil {
		return nil, err
	}
	switch len(els) {
	case 0:
		return inc, nil
	case 1:
		return els[0], nil
	}
	wrapper := &Section{Level: 0}
	for _, el := range els {
		AddChild(wrapper, el)
	}
	return wrapper, nil
}

// parseParagraph joins contiguous text lines into one paragraph: a single
// newline continues it, anything else ends it. Attribute references are
// substituted before the text is split into inline spans.
func parseParagraph(ctx *ParseContext) (Element, error) {
	var lines []string
	for ctx.CurrentToken.Type == TextToken {
		lines = append(lines, ctx.CurrentToken.Value)
		ctx.Advance()
		if ctx.CurrentToken.Type != NewLineToken {
			break
		}
		ctx.Advance()
		if ctx.CurrentToken.IsBlank() {
			break
		}
	}

	content := substituteAttributes(ctx, strings.Join(lines, " "))
	para := &Paragraph{Content: content}
	for _, span := range ParseInlineText(ctx, content) {
		AddChild(para, span)
	}
	return para, nil
}

// substituteAttributes replaces "{name}" references with document
// attribute values. Unknown references stay as written.
func substituteAttributes(ctx *ParseContext, text string) string {
	if !strings.Contains(text, "{") {
		return text
	}
	buf := textedit.NewBuffer([]byte(text))
	buf.ReplaceRefs("{", "}", func(name string) (string, bool) {
		value, ok := ctx.GlobalAttributes[name]
		return value, ok
	})
	return buf.String()
}
