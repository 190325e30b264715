package adoc

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

// mustParse parses src and fails the test on error.
func mustParse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return doc
}

// firstElement parses src and returns its single top-level element.
func firstElement(t *testing.T, src string) Element {
	t.Helper()
	doc := mustParse(t, src)
	if len(doc.Elements()) != 1 {
		t.Fatalf("Parse() produced %d elements, want 1", len(doc.Elements()))
	}
	return doc.Elements()[0]
}

func TestParseEmptyInput(t *testing.T) {
	if _, err := Parse(""); !errors.Is(err, ErrNoContent) {
		t.Errorf("Parse(\"\") error = %v, want ErrNoContent", err)
	}
}

func TestParseDocumentHeader(t *testing.T) {
	src := `= Document Title
John Doe <john@example.com>
v1.2, 2024-05-01

Some paragraph.
`
	doc := mustParse(t, src)

	want := &Header{
		Title:      "Document Title",
		Author:     "John Doe",
		Email:      "john@example.com",
		Revision:   "1.2",
		Date:       "2024-05-01",
		Attributes: Attributes{},
	}
	if !reflect.DeepEqual(doc.Header, want) {
		t.Errorf("Header = %+v, want %+v", doc.Header, want)
	}

	if len(doc.Elements()) != 1 {
		t.Fatalf("got %d elements, want 1", len(doc.Elements()))
	}
	para, ok := doc.Elements()[0].(*Paragraph)
	if !ok {
		t.Fatalf("element 0 = %T, want *Paragraph", doc.Elements()[0])
	}
	if para.Content != "Some paragraph." {
		t.Errorf("paragraph content = %q", para.Content)
	}
}

func TestParseDocumentHeaderTitleOnly(t *testing.T) {
	doc := mustParse(t, "= Title Alone\n\nBody.\n")
	if doc.Header.Title != "Title Alone" {
		t.Errorf("Title = %q", doc.Header.Title)
	}
	if doc.Header.Author != "" || doc.Header.Revision != "" {
		t.Errorf("blank separated header picked up author %q revision %q",
			doc.Header.Author, doc.Header.Revision)
	}
}

func TestParseHeaderKeepsNonAuthorLine(t *testing.T) {
	// A line right after the title that the author pattern rejects must
	// stay in the document body instead of being swallowed
	doc := mustParse(t, "= T\n2 < 3 both true\n")
	if doc.Header.Author != "" || doc.Header.Email != "" {
		t.Errorf("author = %q email = %q, want empty", doc.Header.Author, doc.Header.Email)
	}
	if len(doc.Elements()) != 1 {
		t.Fatalf("got %d elements, want 1", len(doc.Elements()))
	}
	para, ok := doc.Elements()[0].(*Paragraph)
	if !ok {
		t.Fatalf("element 0 = %T, want *Paragraph", doc.Elements()[0])
	}
	if para.Content != "2 < 3 both true" {
		t.Errorf("paragraph content = %q", para.Content)
	}
}

func TestParseAttributes(t *testing.T) {
	src := `:author: Jane
:draft:
:obsolete!:

{author} wrote this about {topic}.
`
	doc := mustParse(t, src)

	for name, want := range map[string]string{
		"author":   "Jane",
		"draft":    "true",
		"obsolete": "false",
	} {
		if got := doc.GetAttribute(name); got != want {
			t.Errorf("attribute %q = %q, want %q", name, got, want)
		}
		if got := doc.Header.Attributes[name]; got != want {
			t.Errorf("header attribute %q = %q, want %q", name, got, want)
		}
	}

	para := doc.Elements()[0].(*Paragraph)
	if para.Content != "Jane wrote this about {topic}." {
		t.Errorf("substituted content = %q", para.Content)
	}
}

func TestParseSections(t *testing.T) {
	src := `== Introduction

=== Parsing Details

== Conclusion
`
	doc := mustParse(t, src)

	want := []struct {
		title string
		level int
		id    string
	}{
		{"Introduction", 1, "_introduction"},
		{"Parsing Details", 2, "_parsing_details"},
		{"Conclusion", 1, "_conclusion"},
	}
	if len(doc.Elements()) != len(want) {
		t.Fatalf("got %d elements, want %d", len(doc.Elements()), len(want))
	}
	for i, w := range want {
		sec, ok := doc.Elements()[i].(*Section)
		if !ok {
			t.Fatalf("element %d = %T, want *Section", i, doc.Elements()[i])
		}
		if sec.Title != w.title || sec.Level != w.level {
			t.Errorf("section %d = %q level %d, want %q level %d",
				i, sec.Title, sec.Level, w.title, w.level)
		}
		if got := sec.GetAttribute("id"); got != w.id {
			t.Errorf("section %d id = %q, want %q", i, got, w.id)
		}
	}
}

func TestParseUnorderedList(t *testing.T) {
	list, ok := firstElement(t, "* one\n* two *bold*\n").(*List)
	if !ok {
		t.Fatalf("not a *List")
	}
	if list.Type != Unordered {
		t.Errorf("list type = %v, want Unordered", list.Type)
	}
	if len(list.Children()) != 2 {
		t.Fatalf("got %d items, want 2", len(list.Children()))
	}

	second := list.Children()[1].(*ListItem)
	if second.Content != "two *bold*" {
		t.Errorf("item content = %q", second.Content)
	}
	spans := second.Children()
	if len(spans) != 2 {
		t.Fatalf("got %d inline spans, want 2", len(spans))
	}
	if text := spans[0].(*Text); text.Content != "two " {
		t.Errorf("span 0 = %q", text.Content)
	}
	if strong := spans[1].(*Strong); strong.Content != "bold" {
		t.Errorf("span 1 = %q", strong.Content)
	}
}

func TestParseOrderedListStartNumber(t *testing.T) {
	list := firstElement(t, "3. three\n4. four\n").(*List)
	if list.Type != Ordered {
		t.Errorf("list type = %v, want Ordered", list.Type)
	}
	if list.StartNumber != 3 {
		t.Errorf("start number = %d, want 3", list.StartNumber)
	}
	if len(list.Children()) != 2 {
		t.Errorf("got %d items, want 2", len(list.Children()))
	}
}

func TestParseCheckboxList(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		checked bool
		content string
	}{
		{"unchecked", "* [ ] open item\n", false, "open item"},
		{"checked lower", "* [x] done item\n", true, "done item"},
		{"checked upper", "* [X] done item\n", true, "done item"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := firstElement(t, tt.src).(*List)
			item := list.Children()[0].(*ListItem)
			if !item.IsCheckbox {
				t.Error("IsCheckbox = false, want true")
			}
			if item.IsChecked != tt.checked {
				t.Errorf("IsChecked = %v, want %v", item.IsChecked, tt.checked)
			}
			if item.Content != tt.content {
				t.Errorf("Content = %q, want %q", item.Content, tt.content)
			}
		})
	}
}

func TestParseDescriptionList(t *testing.T) {
	src := "CPU:: the processor\nRAM::\n"
	list := firstElement(t, src).(*DescriptionList)

	if list.Type != Definition {
		t.Errorf("list type = %v, want Definition", list.Type)
	}
	items := list.Children()
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	first := items[0].(*DescriptionListItem)
	if first.Term != "CPU" || first.Description != "the processor" {
		t.Errorf("item 0 = %q/%q", first.Term, first.Description)
	}
	second := items[1].(*DescriptionListItem)
	if second.Term != "RAM" || second.Description != "" {
		t.Errorf("item 1 = %q/%q, want empty description", second.Term, second.Description)
	}
}

func TestParseTable(t *testing.T) {
	src := `|===
|A |B |C
|1 | |3
|===
`
	table := firstElement(t, src).(*Table)

	if table.Header != nil {
		t.Error("parser populated Header, want nil")
	}
	rows := table.Children()
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	wantRows := [][]string{
		{"A", "B", "C"},
		{"1", "", "3"},
	}
	for i, wantCells := range wantRows {
		row := rows[i].(*TableRow)
		if len(row.Children()) != len(wantCells) {
			t.Fatalf("row %d has %d cells, want %d", i, len(row.Children()), len(wantCells))
		}
		for j, want := range wantCells {
			cell := row.Children()[j].(*TableCell)
			if cell.Content != want {
				t.Errorf("cell %d/%d = %q, want %q", i, j, cell.Content, want)
			}
			if cell.ColSpan != 1 || cell.RowSpan != 1 {
				t.Errorf("cell %d/%d spans = %d/%d, want 1/1", i, j, cell.ColSpan, cell.RowSpan)
			}
		}
	}
}

func TestParseTableUnclosed(t *testing.T) {
	table := firstElement(t, "|===\n|a |b\n").(*Table)
	if len(table.Children()) != 1 {
		t.Errorf("got %d rows, want 1", len(table.Children()))
	}
}

func TestParseBlockQuote(t *testing.T) {
	src := "____\nPithy words.\n____\n"
	quote := firstElement(t, src).(*BlockQuote)
	if quote.Content != "Pithy words." {
		t.Errorf("content = %q", quote.Content)
	}
	if quote.Attribution != "" || quote.Cite != "" {
		t.Errorf("unattributed quote has attribution %q cite %q", quote.Attribution, quote.Cite)
	}
}

func TestParseBlockQuoteUnterminated(t *testing.T) {
	quote := firstElement(t, "____\nunterminated\n").(*BlockQuote)
	if quote.Content != "unterminated" {
		t.Errorf("content = %q", quote.Content)
	}
}

func TestParseQuoteWithAttribution(t *testing.T) {
	src := `[quote,Albert Einstein,On Relativity]
____
It is all relative.
____
`
	quote := firstElement(t, src).(*BlockQuote)
	if quote.Content != "It is all relative." {
		t.Errorf("content = %q", quote.Content)
	}
	if quote.Attribution != "Albert Einstein" {
		t.Errorf("attribution = %q", quote.Attribution)
	}
	if quote.Cite != "On Relativity" {
		t.Errorf("cite = %q", quote.Cite)
	}
}

func TestParseVerse(t *testing.T) {
	src := `[verse,William Blake,Auguries of Innocence]
____
To see a world
in a grain of sand
____
`
	verse := firstElement(t, src).(*Verse)
	if verse.Content != "To see a world\nin a grain of sand" {
		t.Errorf("content = %q, line breaks must survive", verse.Content)
	}
	if verse.Author != "William Blake" || verse.Citation != "Auguries of Innocence" {
		t.Errorf("attribution = %q/%q", verse.Author, verse.Citation)
	}
}

func TestParseBlockQuoteInteriorBlankLines(t *testing.T) {
	src := "____\nfirst\n\nsecond\n____\n"
	quote := firstElement(t, src).(*BlockQuote)
	if quote.Content != "first\n\nsecond" {
		t.Errorf("content = %q, want interior blank line kept", quote.Content)
	}
}

func TestParseCodeBlock(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		language string
		content  string
	}{
		{
			name:     "source style",
			src:      "[source,go]\n----\nfunc main() {}\n----\n",
			language: "go",
			content:  "func main() {}",
		},
		{
			name:     "language on delimiter",
			src:      "----python\nprint(1)\n----\n",
			language: "python",
			content:  "print(1)",
		},
		{
			name:     "bare delimiters",
			src:      "----\nplain\n----\n",
			language: "",
			content:  "plain",
		},
		{
			name:     "d2 style",
			src:      "[d2]\n----\nx -> y\n----\n",
			language: "d2",
			content:  "x -> y",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := firstElement(t, tt.src).(*CodeBlock)
			if cb.Language != tt.language {
				t.Errorf("language = %q, want %q", cb.Language, tt.language)
			}
			if cb.Content != tt.content {
				t.Errorf("content = %q, want %q", cb.Content, tt.content)
			}
		})
	}
}

func TestParseListingStyle(t *testing.T) {
	src := "[listing,title=Files]\n----\na.txt\nb.txt\n----\n"
	listing := firstElement(t, src).(*Listing)
	if listing.Content != "a.txt\nb.txt" {
		t.Errorf("content = %q", listing.Content)
	}
	if listing.Title != "Files" {
		t.Errorf("title = %q", listing.Title)
	}
}

func TestParseLiteral(t *testing.T) {
	lit := firstElement(t, "....\nkeep *this* raw\n....\n").(*Literal)
	if lit.Content != "keep *this* raw" {
		t.Errorf("content = %q", lit.Content)
	}
}

func TestParsePassthrough(t *testing.T) {
	pass := firstElement(t, "++++\n<b>raw</b>\n++++\n").(*Passthrough)
	if pass.Content != "<b>raw</b>" {
		t.Errorf("content = %q", pass.Content)
	}
	if pass.Substitutions != nil {
		t.Errorf("substitutions = %v, want nil", pass.Substitutions)
	}
}

func TestParsePassthroughSubstitutions(t *testing.T) {
	src := "[pass,subs=attributes+macros]\n++++\n{x}\n++++\n"
	pass := firstElement(t, src).(*Passthrough)
	if !reflect.DeepEqual(pass.Substitutions, []string{"attributes", "macros"}) {
		t.Errorf("substitutions = %v", pass.Substitutions)
	}
}

func TestParseSidebar(t *testing.T) {
	sb := firstElement(t, "****\nInside text.\n****\n").(*Sidebar)
	if len(sb.Children()) != 1 {
		t.Fatalf("got %d children, want 1", len(sb.Children()))
	}
	para := sb.Children()[0].(*Paragraph)
	if para.Content != "Inside text." {
		t.Errorf("content = %q", para.Content)
	}
}

func TestParseExampleWithNestedList(t *testing.T) {
	ex := firstElement(t, "====\n* a\n* b\n====\n").(*Example)
	if len(ex.Children()) != 1 {
		t.Fatalf("got %d children, want 1", len(ex.Children()))
	}
	list := ex.Children()[0].(*List)
	if len(list.Children()) != 2 {
		t.Errorf("nested list has %d items, want 2", len(list.Children()))
	}
}

func TestParseOpenBlock(t *testing.T) {
	open := firstElement(t, "--\ncontent line\n--\n").(*Open)
	if open.MasqueradeType != "" {
		t.Errorf("masquerade = %q, want empty", open.MasqueradeType)
	}
	if len(open.Children()) != 1 {
		t.Errorf("got %d children, want 1", len(open.Children()))
	}
}

func TestParseOpenBlockMasquerade(t *testing.T) {
	open := firstElement(t, "[sidebar]\n--\ncontent\n--\n").(*Open)
	if open.MasqueradeType != "sidebar" {
		t.Errorf("masquerade = %q, want sidebar", open.MasqueradeType)
	}
}

func TestParseAdmonitionLine(t *testing.T) {
	tests := []struct {
		src  string
		typ  AdmonitionType
		text string
	}{
		{"NOTE: Remember this.", Note, "Remember this."},
		{"TIP: Try it.", Tip, "Try it."},
		{"IMPORTANT: Do not skip.", Important, "Do not skip."},
		{"WARNING: Careful now.", Warning, "Careful now."},
		{"CAUTION: Hot surface.", Caution, "Hot surface."},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			adm := firstElement(t, tt.src+"\n").(*Admonition)
			if adm.Type != tt.typ {
				t.Errorf("type = %v, want %v", adm.Type, tt.typ)
			}
			if adm.Content != tt.text {
				t.Errorf("content = %q, want %q", adm.Content, tt.text)
			}
		})
	}
}

func TestParseAdmonitionBlock(t *testing.T) {
	src := "[NOTE]\n====\nCare needed.\n====\n"
	adm := firstElement(t, src).(*Admonition)
	if adm.Type != Note {
		t.Errorf("type = %v, want Note", adm.Type)
	}
	if len(adm.Children()) != 1 {
		t.Fatalf("got %d children, want 1", len(adm.Children()))
	}
	if para := adm.Children()[0].(*Paragraph); para.Content != "Care needed." {
		t.Errorf("nested content = %q", para.Content)
	}
}

func TestParseAdmonitionBlockParagraph(t *testing.T) {
	adm := firstElement(t, "[WARNING]\nJust text.\n").(*Admonition)
	if adm.Type != Warning {
		t.Errorf("type = %v, want Warning", adm.Type)
	}
	if adm.Content != "Just text." {
		t.Errorf("content = %q", adm.Content)
	}
	if len(adm.Children()) != 1 {
		t.Fatalf("got %d children, want 1", len(adm.Children()))
	}
	if para := adm.Children()[0].(*Paragraph); para.Content != "Just text." {
		t.Errorf("nested paragraph content = %q", para.Content)
	}
}

func TestParseAnchorBlock(t *testing.T) {
	anchor := firstElement(t, "[#results]\n").(*Anchor)
	if anchor.Id != "results" {
		t.Errorf("id = %q", anchor.Id)
	}

	labeled := firstElement(t, "[#results,Result Table]\n").(*Anchor)
	if labeled.Id != "results" || labeled.Label != "Result Table" {
		t.Errorf("anchor = %q/%q", labeled.Id, labeled.Label)
	}
}

func TestParseAttributeBlockStyle(t *testing.T) {
	doc := mustParse(t, "[lead,icon=rocket]\nOpening words.\n")
	para := doc.Elements()[0].(*Paragraph)
	if got := para.GetAttribute("style"); got != "lead" {
		t.Errorf("style = %q, want lead", got)
	}
	if got := para.GetAttribute("icon"); got != "rocket" {
		t.Errorf("icon = %q, want rocket", got)
	}
}

func TestParseTableOfContents(t *testing.T) {
	src := `toc::[]

== One

=== Sub

== Two
`
	doc := mustParse(t, src)
	toc := doc.Elements()[0].(*TableOfContents)

	if toc.Title != "Table of Contents" || toc.MaxDepth != 3 {
		t.Errorf("defaults = %q/%d", toc.Title, toc.MaxDepth)
	}
	if len(toc.Entries) != 2 {
		t.Fatalf("got %d top entries, want 2", len(toc.Entries))
	}
	one := toc.Entries[0]
	if one.Title != "One" || one.Id != "_one" || one.Level != 1 {
		t.Errorf("entry 0 = %+v", one)
	}
	if len(one.Entries) != 1 || one.Entries[0].Title != "Sub" {
		t.Errorf("entry 0 children = %+v", one.Entries)
	}
	if toc.Entries[1].Title != "Two" {
		t.Errorf("entry 1 = %+v", toc.Entries[1])
	}
}

func TestParseTableOfContentsParams(t *testing.T) {
	src := `toc::[title=Contents,levels=1]

== One

=== Sub
`
	doc := mustParse(t, src)
	toc := doc.Elements()[0].(*TableOfContents)

	if toc.Title != "Contents" || toc.MaxDepth != 1 {
		t.Errorf("params = %q/%d, want Contents/1", toc.Title, toc.MaxDepth)
	}
	if len(toc.Entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(toc.Entries))
	}
	if len(toc.Entries[0].Entries) != 0 {
		t.Errorf("level 2 section leaked into a depth 1 table of contents")
	}
}

func TestParseBlockMacros(t *testing.T) {
	t.Run("image", func(t *testing.T) {
		img := firstElement(t, "image::diagram.png[Architecture,width=500]\n").(*ImageMacro)
		if img.Target != "diagram.png" {
			t.Errorf("target = %q", img.Target)
		}
		if img.Alt() != "Architecture" || img.Width() != "500" {
			t.Errorf("alt/width = %q/%q", img.Alt(), img.Width())
		}
		if img.MacroType != MacroBlock {
			t.Errorf("macro type = %v, want Block", img.MacroType)
		}
	})

	t.Run("video", func(t *testing.T) {
		vid := firstElement(t, "video::movie.mp4[width=640]\n").(*VideoMacro)
		if vid.Target != "movie.mp4" || vid.Width() != "640" {
			t.Errorf("target/width = %q/%q", vid.Target, vid.Width())
		}
		if !vid.Controls() {
			t.Error("controls should default to true")
		}
	})

	t.Run("unknown name stays generic", func(t *testing.T) {
		m := firstElement(t, "gallery::photos[cols=3]\n").(*Macro)
		if m.Name != "gallery" || m.Target != "photos" {
			t.Errorf("macro = %q/%q", m.Name, m.Target)
		}
		if m.Parameters["cols"] != "3" {
			t.Errorf("parameters = %v", m.Parameters)
		}
	})
}

func TestParseParagraphJoinsLines(t *testing.T) {
	doc := mustParse(t, "Line one\nLine two\n\nNext paragraph\n")
	if len(doc.Elements()) != 2 {
		t.Fatalf("got %d elements, want 2", len(doc.Elements()))
	}
	first := doc.Elements()[0].(*Paragraph)
	if first.Content != "Line one Line two" {
		t.Errorf("joined content = %q", first.Content)
	}
	second := doc.Elements()[1].(*Paragraph)
	if second.Content != "Next paragraph" {
		t.Errorf("second content = %q", second.Content)
	}
}

func TestParseElementFragment(t *testing.T) {
	el, err := ParseElement("\n* a\n* b\n")
	if err != nil {
		t.Fatalf("ParseElement() error = %v", err)
	}
	list, ok := el.(*List)
	if !ok {
		t.Fatalf("ParseElement() = %T, want *List", el)
	}
	if len(list.Children()) != 2 {
		t.Errorf("got %d items, want 2", len(list.Children()))
	}
}

func TestParseMixedDocument(t *testing.T) {
	src := `= Manual
Ana Gomez
v2.0

:project: adoc

== Usage

Run {project} with a file.

* parse
* render

NOTE: Keep sources in UTF-8.
`
	doc := mustParse(t, src)

	if doc.Header.Title != "Manual" || doc.Header.Author != "Ana Gomez" {
		t.Errorf("header = %+v", doc.Header)
	}
	var kinds []string
	for _, el := range doc.Elements() {
		kinds = append(kinds, el.ElementType())
	}
	want := []string{"Section", "Paragraph", "List", "Admonition"}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("element kinds = %v, want %v", kinds, want)
	}

	para := doc.Elements()[1].(*Paragraph)
	if !strings.Contains(para.Content, "Run adoc with") {
		t.Errorf("attribute not substituted: %q", para.Content)
	}
}

func TestParseErrorFormat(t *testing.T) {
	err := &ParseError{Filename: "doc.adoc", Line: 3, Column: 7, Msg: "malformed attribute line"}
	if got := err.Error(); got != "doc.adoc:3:7: malformed attribute line" {
		t.Errorf("Error() = %q", got)
	}
}
