package adoc

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	hlhtml "github.com/alecthomas/chroma/v2/formatters/html"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/hesusruiz/vcutils/yaml"
	"go.uber.org/zap"
	"oss.terrastruct.com/d2/d2graph"
	"oss.terrastruct.com/d2/d2layouts/d2dagrelayout"
	"oss.terrastruct.com/d2/d2lib"
	"oss.terrastruct.com/d2/d2renderers/d2svg"
	"oss.terrastruct.com/d2/d2themes/d2themescatalog"
	"oss.terrastruct.com/d2/lib/textmeasure"
)

// A ByteRenderer accumulates heterogeneous output fragments efficiently.
type ByteRenderer struct {
	bytes.Buffer
}

// Render writes the given fragments to the buffer, without separators.
func (r *ByteRenderer) Render(inputs ...any) {
	for _, s := range inputs {
		switch v := s.(type) {
		case string:
			r.WriteString(v)
		case []byte:
			r.Write(v)
		case int:
			r.WriteString(strconv.Itoa(v))
		case byte:
			r.WriteByte(v)
		case rune:
			r.WriteRune(v)
		default:
			fmt.Fprintf(r, "%v", v)
		}
	}
}

// Renderln writes the given fragments followed by a newline.
func (r *ByteRenderer) Renderln(inputs ...any) {
	r.Render(inputs...)
	r.Render("\n")
}

// CloneBytes returns a copy of the accumulated bytes.
func (r *ByteRenderer) CloneBytes() []byte {
	return bytes.Clone(r.Bytes())
}

// A Converter renders a Document as a standalone HTML page. Source blocks
// are syntax-highlighted and "d2" listings are compiled to inline SVG
// diagrams. A Converter is for one-shot use; create a new one per document.
type Converter struct {
	config *yaml.YAML
	logger *zap.SugaredLogger

	// footnote definitions encountered during the walk, emitted at the end
	footnotes []*Footnote

	// levels of the currently open section wrappers
	sections []int
}

// NewConverter returns a Converter. Both arguments may be nil: without a
// config the default code style applies, without a logger nothing is
// logged.
func NewConverter(config *yaml.YAML, logger *zap.SugaredLogger) *Converter {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Converter{config: config, logger: logger}
}

// ConvertToHTML renders doc with default settings.
func ConvertToHTML(doc *Document) (string, error) {
	return NewConverter(nil, nil).ConvertToString(doc)
}

// ConvertToString renders doc and returns the HTML text.
func (cv *Converter) ConvertToString(doc *Document) (string, error) {
	var buf bytes.Buffer
	if err := cv.Convert(doc, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ConvertFragment renders only the document content, without the page
// scaffolding, so it can be embedded in an external template.
func (cv *Converter) ConvertFragment(doc *Document) string {
	br := &ByteRenderer{}
	cv.footnotes = nil
	cv.sections = nil

	for _, el := range doc.Elements() {
		cv.renderElement(br, el)
	}
	cv.closeSections(br, 0)
	cv.renderFootnotes(br)

	return br.String()
}

// Convert renders doc to w.
func (cv *Converter) Convert(doc *Document, w io.Writer) error {
	br := &ByteRenderer{}
	cv.footnotes = nil
	cv.sections = nil

	cv.renderDocumentBegin(br, doc)
	for _, el := range doc.Elements() {
		cv.renderElement(br, el)
	}
	cv.closeSections(br, 0)
	cv.renderFootnotes(br)
	br.Renderln("</body>")
	br.Renderln("</html>")

	_, err := w.Write(br.Bytes())
	return err
}

func (cv *Converter) renderDocumentBegin(br *ByteRenderer, doc *Document) {
	hdr := doc.Header
	if hdr == nil {
		hdr = &Header{}
	}

	br.Renderln("<!DOCTYPE html>")
	br.Renderln(`<html lang="en">`)
	br.Renderln("<head>")
	br.Renderln(`<meta charset="utf-8">`)
	br.Renderln("<title>", html.EscapeString(hdr.Title), "</title>")
	br.Renderln("</head>")
	br.Renderln("<body>")

	if hdr.Title != "" {
		br.Renderln(`<h1 id="_title">`, html.EscapeString(hdr.Title), "</h1>")
	}
	if hdr.Author != "" {
		br.Render(`<div class="author">`, html.EscapeString(hdr.Author))
		if hdr.Email != "" {
			br.Render(` &lt;<a href="mailto:`, hdr.Email, `">`, html.EscapeString(hdr.Email), "</a>&gt;")
		}
		br.Renderln("</div>")
	}
	if hdr.Revision != "" {
		br.Render(`<div class="revision">`, html.EscapeString(hdr.Revision))
		if hdr.Date != "" {
			br.Render(", ", html.EscapeString(hdr.Date))
		}
		br.Renderln("</div>")
	}
}

// renderElement dispatches on the concrete node kind. Every kind produced
// by the parser is handled; anything else degrades to an HTML comment.
func (cv *Converter) renderElement(br *ByteRenderer, el Element) {
	switch e := el.(type) {
	case *Section:
		cv.renderSection(br, e)
	case *Paragraph:
		br.Render("<p>")
		cv.renderInlineChildren(br, e, e.Content)
		br.Renderln("</p>")
	case *List:
		cv.renderList(br, e)
	case *ListItem:
		cv.renderListItem(br, e)
	case *DescriptionList:
		br.Renderln("<dl>")
		cv.renderChildren(br, e)
		br.Renderln("</dl>")
	case *DescriptionListItem:
		br.Renderln("<dt>", html.EscapeString(e.Term), "</dt>")
		br.Renderln("<dd>", html.EscapeString(e.Description), "</dd>")
	case *Table:
		cv.renderTable(br, e)
	case *TableRow:
		br.Renderln("<tr>")
		cv.renderChildren(br, e)
		br.Renderln("</tr>")
	case *TableCell:
		cv.renderTableCell(br, e, "td")
	case *TableHeader:
		br.Renderln("<thead>")
		br.Renderln("<tr>")
		for _, c := range e.Children() {
			if cell, ok := c.(*TableCell); ok {
				cv.renderTableCell(br, cell, "th")
			}
		}
		br.Renderln("</tr>")
		br.Renderln("</thead>")
	case *CodeBlock:
		if e.Language == "d2" {
			cv.renderDiagram(br, e.Content)
		} else {
			cv.renderCode(br, e.Content, e.Language, "")
		}
	case *Listing:
		if e.GetAttribute("style") == "d2" {
			cv.renderDiagram(br, e.Content)
		} else {
			cv.renderCode(br, e.Content, "", e.Title)
		}
	case *Literal:
		br.Renderln(`<div class="literalblock">`)
		if e.Title != "" {
			br.Renderln(`<div class="title">`, html.EscapeString(e.Title), "</div>")
		}
		br.Renderln("<pre>", html.EscapeString(e.Content), "</pre>")
		br.Renderln("</div>")
	case *Verse:
		br.Renderln(`<div class="verseblock">`)
		br.Renderln(`<pre class="content">`, html.EscapeString(e.Content), "</pre>")
		cv.renderAttribution(br, e.Author, e.Citation)
		br.Renderln("</div>")
	case *Passthrough:
		br.Renderln(e.Content)
	case *BlockQuote:
		br.Renderln(`<div class="quoteblock">`)
		br.Renderln("<blockquote>", html.EscapeString(e.Content), "</blockquote>")
		cv.renderAttribution(br, e.Attribution, e.Cite)
		br.Renderln("</div>")
	case *Sidebar:
		br.Renderln(`<div class="sidebarblock">`)
		cv.renderChildren(br, e)
		br.Renderln("</div>")
	case *Example:
		br.Renderln(`<div class="exampleblock">`)
		cv.renderChildren(br, e)
		br.Renderln("</div>")
	case *Open:
		class := "openblock"
		if e.MasqueradeType != "" {
			class = e.MasqueradeType + "block"
		}
		br.Renderln(`<div class="`, class, `">`)
		cv.renderChildren(br, e)
		br.Renderln("</div>")
	case *Admonition:
		label := e.Type.String()
		br.Renderln(`<div class="admonitionblock `, strings.ToLower(label), `">`)
		br.Render(`<strong class="title">`, label, "</strong> ")
		cv.renderInlineChildren(br, e, e.Content)
		br.Renderln("")
		br.Renderln("</div>")
	case *Anchor:
		br.Render(`<a id="`, e.Id, `"></a>`)
	case *CrossReference:
		text := e.LinkText
		if text == "" {
			text = e.TargetId
		}
		br.Render(`<a href="#`, e.TargetId, `">`, html.EscapeString(text), "</a>")
	case *Footnote:
		cv.renderFootnoteRef(br, e)
	case *TableOfContents:
		br.Renderln(`<div id="toc" class="toc">`)
		br.Renderln(`<div id="toctitle">`, html.EscapeString(e.Title), "</div>")
		cv.renderTOCEntries(br, e.Entries)
		br.Renderln("</div>")
	case *TableOfContentsEntry:
		br.Render(`<a href="#`, e.Id, `">`, html.EscapeString(e.Title), "</a>")
	case *ImageMacro:
		cv.renderImageMacro(br, e)
	case *VideoMacro:
		cv.renderVideoMacro(br, e)
	case *IncludeMacro:
		br.Renderln(`<span class="unresolved-include">`,
			html.EscapeString("include::"+e.Target), "</span>")
	case *Macro:
		br.Renderln(`<span class="macro macro-`, e.Name, `">`,
			html.EscapeString(e.Target), "</span>")
	case *Text:
		br.Render(html.EscapeString(e.Content))
	case *Strong:
		br.Render("<strong>", html.EscapeString(e.Content), "</strong>")
	case *Emphasis:
		br.Render("<em>", html.EscapeString(e.Content), "</em>")
	case *Highlight:
		br.Render("<mark>", html.EscapeString(e.Content), "</mark>")
	case *Superscript:
		br.Render("<sup>", html.EscapeString(e.Content), "</sup>")
	case *Subscript:
		br.Render("<sub>", html.EscapeString(e.Content), "</sub>")
	case *InlineCode:
		br.Render("<code>", html.EscapeString(e.Content), "</code>")
	case *Link:
		text := e.Text
		if text == "" {
			text = e.URL
		}
		br.Render(`<a href="`, e.URL, `">`, html.EscapeString(text), "</a>")
	case *Image:
		br.Render(`<img class="inline" src="`, e.Source, `" alt="`, html.EscapeString(e.Alt), `">`)
	default:
		br.Renderln("<!-- unhandled element ", el.ElementType(), " -->")
	}
}

// renderChildren renders every child of el in order.
func (cv *Converter) renderChildren(br *ByteRenderer, el Element) {
	for _, child := range el.Children() {
		cv.renderElement(br, child)
	}
}

// renderInlineChildren renders el's inline spans, or the escaped fallback
// text when no spans were parsed.
func (cv *Converter) renderInlineChildren(br *ByteRenderer, el Element, fallback string) {
	children := el.Children()
	if len(children) == 0 {
		br.Render(html.EscapeString(fallback))
		return
	}
	for _, child := range children {
		cv.renderElement(br, child)
	}
}

func (cv *Converter) renderSection(br *ByteRenderer, sec *Section) {
	if sec.Level == 0 {
		// container with no heading, only its children matter
		cv.renderChildren(br, sec)
		return
	}

	cv.closeSections(br, sec.Level)

	id := sec.GetAttribute("id")
	if id == "" {
		id = generateID(sec.Title)
	}
	h := sec.Level + 1
	if h > 6 {
		h = 6
	}

	br.Renderln(`<div class="sect`, sec.Level, `">`)
	br.Renderln("<h", h, ` id="`, id, `">`, html.EscapeString(sec.Title), "</h", h, ">")
	cv.sections = append(cv.sections, sec.Level)
	cv.renderChildren(br, sec)
}

// closeSections closes every open section wrapper at or below level.
func (cv *Converter) closeSections(br *ByteRenderer, level int) {
	for len(cv.sections) > 0 {
		top := cv.sections[len(cv.sections)-1]
		if level > 0 && top < level {
			return
		}
		br.Renderln("</div>")
		cv.sections = cv.sections[:len(cv.sections)-1]
	}
}

func (cv *Converter) renderList(br *ByteRenderer, list *List) {
	tag := "ul"
	if list.Type == Ordered {
		tag = "ol"
	}
	br.Render("<", tag)
	if list.Type == Ordered && list.StartNumber > 1 {
		br.Render(` start="`, list.StartNumber, `"`)
	}
	br.Renderln(">")
	cv.renderChildren(br, list)
	br.Renderln("</", tag, ">")
}

func (cv *Converter) renderListItem(br *ByteRenderer, item *ListItem) {
	br.Render("<li>")
	if item.IsCheckbox {
		if item.IsChecked {
			br.Render(`<input type="checkbox" checked disabled> `)
		} else {
			br.Render(`<input type="checkbox" disabled> `)
		}
	}
	cv.renderInlineChildren(br, item, item.Content)
	br.Renderln("</li>")
}

func (cv *Converter) renderTable(br *ByteRenderer, table *Table) {
	br.Renderln(`<table class="tableblock">`)
	if table.Header != nil {
		cv.renderElement(br, table.Header)
	}
	br.Renderln("<tbody>")
	cv.renderChildren(br, table)
	br.Renderln("</tbody>")
	br.Renderln("</table>")
}

func (cv *Converter) renderTableCell(br *ByteRenderer, cell *TableCell, tag string) {
	if cell.IsHeader {
		tag = "th"
	}
	br.Render("<", tag)
	if cell.ColSpan > 1 {
		br.Render(` colspan="`, cell.ColSpan, `"`)
	}
	if cell.RowSpan > 1 {
		br.Render(` rowspan="`, cell.RowSpan, `"`)
	}
	if cell.Alignment != "" {
		br.Render(` style="text-align:`, cell.Alignment, `"`)
	}
	br.Renderln(">", html.EscapeString(cell.Content), "</", tag, ">")
}

func (cv *Converter) renderAttribution(br *ByteRenderer, author, cite string) {
	if author == "" && cite == "" {
		return
	}
	br.Render(`<div class="attribution">&#8212; `, html.EscapeString(author))
	if cite != "" {
		br.Render("<br><cite>", html.EscapeString(cite), "</cite>")
	}
	br.Renderln("</div>")
}

func (cv *Converter) renderTOCEntries(br *ByteRenderer, entries []*TableOfContentsEntry) {
	if len(entries) == 0 {
		return
	}
	br.Renderln("<ul>")
	for _, entry := range entries {
		br.Render(`<li><a href="#`, entry.Id, `">`, html.EscapeString(entry.Title), "</a>")
		cv.renderTOCEntries(br, entry.Entries)
		br.Renderln("</li>")
	}
	br.Renderln("</ul>")
}

func (cv *Converter) renderImageMacro(br *ByteRenderer, m *ImageMacro) {
	br.Renderln(`<div class="imageblock">`)
	br.Render(`<img src="`, m.Target, `" alt="`, html.EscapeString(m.Alt()), `"`)
	if w := m.Width(); w != "" {
		br.Render(` width="`, w, `"`)
	}
	if h := m.Height(); h != "" {
		br.Render(` height="`, h, `"`)
	}
	br.Renderln(">")
	if t := m.Title(); t != "" && t != m.Parameters["alt"] {
		br.Renderln(`<div class="title">`, html.EscapeString(t), "</div>")
	}
	br.Renderln("</div>")
}

func (cv *Converter) renderVideoMacro(br *ByteRenderer, m *VideoMacro) {
	br.Renderln(`<div class="videoblock">`)
	br.Render("<video")
	if w := m.Width(); w != "" {
		br.Render(` width="`, w, `"`)
	}
	if h := m.Height(); h != "" {
		br.Render(` height="`, h, `"`)
	}
	if m.Controls() {
		br.Render(" controls")
	}
	br.Renderln(">")
	br.Renderln(`<source src="`, m.Target, `" type="video/`, m.VideoFormat(), `">`)
	br.Renderln("</video>")
	br.Renderln("</div>")
}

// renderFootnoteRef emits the superscript marker for a footnote and, for
// definitions, queues the body for the end of the document.
func (cv *Converter) renderFootnoteRef(br *ByteRenderer, fn *Footnote) {
	if !fn.IsReference {
		cv.footnotes = append(cv.footnotes, fn)
		br.Render(`<sup class="footnote" id="_footnoteref_`, fn.ReferenceLabel, `">`)
	} else {
		br.Render(`<sup class="footnote">`)
	}
	br.Render(`<a href="#`, fn.Id, `">[`, fn.ReferenceLabel, `]</a></sup>`)
}

func (cv *Converter) renderFootnotes(br *ByteRenderer) {
	if len(cv.footnotes) == 0 {
		return
	}
	br.Renderln(`<div id="footnotes">`)
	br.Renderln("<hr>")
	for _, fn := range cv.footnotes {
		br.Render(`<div class="footnote" id="`, fn.Id, `">`)
		br.Render(`<a href="#_footnoteref_`, fn.ReferenceLabel, `">`, fn.ReferenceLabel, "</a>. ")
		br.Render(html.EscapeString(fn.Text))
		br.Renderln("</div>")
	}
	br.Renderln("</div>")
}

// renderCode emits a listing block with chroma syntax highlighting. An
// empty language falls back to content analysis, then to plain text.
func (cv *Converter) renderCode(br *ByteRenderer, content, language, title string) {
	br.Renderln(`<div class="listingblock">`)
	if title != "" {
		br.Renderln(`<div class="title">`, html.EscapeString(title), "</div>")
	}

	// Determine lexer.
	l := lexers.Get(language)
	if l == nil {
		l = lexers.Analyse(content)
	}
	if l == nil {
		l = lexers.Fallback
	}
	l = chroma.Coalesce(l)

	// Determine style from the config data
	s := styles.Get(cv.codeStyle())

	f := hlhtml.New(hlhtml.Standalone(false), hlhtml.PreventSurroundingPre(true))

	br.Renderln(`<pre class="highlight nohighlight">`)
	rb := &bytes.Buffer{}
	it, err := l.Tokenise(nil, content)
	if err == nil {
		err = f.Format(rb, s, it)
	}
	if err != nil {
		cv.logger.Errorw("highlighting source block", "error", err)
		rb.Reset()
		rb.WriteString(html.EscapeString(content))
	}
	br.Render(rb.Bytes())
	br.Renderln("</pre>")
	br.Renderln("</div>")
}

func (cv *Converter) codeStyle() string {
	if cv.config == nil {
		return "github"
	}
	return cv.config.String("adoc.codeStyle", "github")
}

// renderDiagram compiles a d2 source block and embeds the resulting SVG.
// Any failure degrades to a highlighted code block instead of an error.
func (cv *Converter) renderDiagram(br *ByteRenderer, content string) {
	ruler, err := textmeasure.NewRuler()
	if err != nil {
		cv.logger.Warnw("creating d2 ruler", "error", err)
		cv.renderCode(br, content, "d2", "")
		return
	}

	defaultLayout := func(ctx context.Context, g *d2graph.Graph) error {
		return d2dagrelayout.Layout(ctx, g, nil)
	}
	diagram, _, err := d2lib.Compile(context.Background(), content, &d2lib.CompileOptions{
		Layout: defaultLayout,
		Ruler:  ruler,
	})
	if err != nil {
		cv.logger.Warnw("compiling d2 diagram", "error", err)
		cv.renderCode(br, content, "d2", "")
		return
	}

	svg, err := d2svg.Render(diagram, &d2svg.RenderOpts{
		Pad:     d2svg.DEFAULT_PADDING,
		ThemeID: d2themescatalog.NeutralDefault.ID,
	})
	if err != nil {
		cv.logger.Warnw("rendering d2 diagram", "error", err)
		cv.renderCode(br, content, "d2", "")
		return
	}

	br.Renderln(`<div class="imageblock diagram">`)
	br.Renderln(svg)
	br.Renderln("</div>")
}
