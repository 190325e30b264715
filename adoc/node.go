package adoc

import "strconv"

// Attributes is a string-keyed attribute table. It is used both for the
// element-scoped attributes of every node and for the document-wide table
// built from ":name: value" lines. Boolean attributes follow the document
// convention: ":name:" sets "true", ":name!:" sets "false".
type Attributes map[string]string

// GetAttribute returns the value of the named attribute, or "" if unset.
func (a Attributes) GetAttribute(name string) string {
	return a[name]
}

// HasAttribute reports whether the named attribute is set.
func (a Attributes) HasAttribute(name string) bool {
	_, ok := a[name]
	return ok
}

// IsSet reports whether the named attribute is set and is not the boolean
// "false" value.
func (a Attributes) IsSet(name string) bool {
	v, ok := a[name]
	return ok && v != "false"
}

// An Element is one node of the document tree. The set of implementations
// is closed: every node kind is defined in this package, so consumers can
// type-switch exhaustively over the concrete types listed in this file and
// treat anything else as unknown.
//
// Every Element carries the same capability set: a fixed ElementType name,
// a lazily allocated attribute table, a non-owning Parent back pointer and
// an owned, ordered Children list. Children are exclusively owned by their
// parent; AddChild and RemoveChild keep the Parent pointer consistent.
type Element interface {
	// ElementType returns the fixed kind name of the node, such as
	// "Paragraph" or "Section". It never changes after construction.
	ElementType() string

	// Attributes returns the element-scoped attribute table, allocating
	// it on first use.
	Attributes() Attributes

	// GetAttribute returns the value of a single element attribute.
	GetAttribute(name string) string

	// SetAttribute sets a single element attribute.
	SetAttribute(name, value string)

	// Parent returns the element this one is attached to, or nil.
	Parent() Element

	// Children returns the ordered child list. Callers must not attach or
	// detach nodes directly; use AddChild and RemoveChild.
	Children() []Element

	// base gives the tree plumbing access to the shared part of every
	// node. Being unexported, it also closes the set of Element
	// implementations to this package.
	base() *container
}

// container is the shared part of every Element implementation.
type container struct {
	attrs    Attributes
	parent   Element
	children []Element
}

func (c *container) Attributes() Attributes {
	if c.attrs == nil {
		c.attrs = Attributes{}
	}
	return c.attrs
}

func (c *container) GetAttribute(name string) string {
	return c.attrs[name]
}

func (c *container) SetAttribute(name, value string) {
	if c.attrs == nil {
		c.attrs = Attributes{}
	}
	c.attrs[name] = value
}

func (c *container) Parent() Element     { return c.parent }
func (c *container) Children() []Element { return c.children }
func (c *container) base() *container    { return c }

// AddChild appends child at the end of parent's children and sets the
// child's Parent pointer.
//
// It will panic if child is already attached to a parent.
func AddChild(parent, child Element) {
	if child.base().parent != nil {
		panic("AddChild called for an already attached child Element")
	}
	parent.base().children = append(parent.base().children, child)
	child.base().parent = parent
}

// RemoveChild removes child from parent's children. Afterwards the child
// has no parent.
//
// It will panic if child's parent is not parent.
func RemoveChild(parent, child Element) {
	if child.base().parent != parent {
		panic("RemoveChild called for a non-child Element")
	}
	pc := parent.base()
	for i, c := range pc.children {
		if c == child {
			pc.children = append(pc.children[:i], pc.children[i+1:]...)
			break
		}
	}
	child.base().parent = nil
}

// ReparentChildren moves all of src's children, in order, to the end of
// dst's children.
func ReparentChildren(dst, src Element) {
	for {
		cs := src.base().children
		if len(cs) == 0 {
			return
		}
		child := cs[0]
		RemoveChild(src, child)
		AddChild(dst, child)
	}
}

// Header is the document metadata gathered from the title line, the author
// line and the revision line at the top of the source, plus the document
// attributes in effect when parsing finished. It is not itself a tree node.
type Header struct {
	Title      string
	Author     string
	Email      string
	Revision   string
	Date       string
	Attributes Attributes
}

// Document is the root of the tree produced by a parse. Its children are
// the top-level block elements in source order.
type Document struct {
	container
	Header *Header
}

func (*Document) ElementType() string { return "Document" }

// Elements returns the ordered top-level elements of the document.
func (d *Document) Elements() []Element { return d.children }

// Section is a titled division ("== Title" and deeper). Level is the
// number of '=' characters minus one and is at least 1 for sections parsed
// from source; Level 0 marks a synthetic container with no heading, used
// when several included elements must be wrapped into one node.
type Section struct {
	container
	Title string
	Level int
}

func (*Section) ElementType() string { return "Section" }

// Paragraph is a run of plain text lines. Content holds the raw text;
// Children holds the parsed inline spans.
type Paragraph struct {
	container
	Content string
}

func (*Paragraph) ElementType() string { return "Paragraph" }

// A ListType distinguishes the list families.
type ListType uint32

const (
	Unordered ListType = iota
	Ordered
	Definition
)

// String returns a string representation of the ListType.
func (t ListType) String() string {
	switch t {
	case Unordered:
		return "Unordered"
	case Ordered:
		return "Ordered"
	case Definition:
		return "Definition"
	}
	return "Invalid(" + strconv.Itoa(int(t)) + ")"
}

// List is an ordered or unordered list; its children are ListItems.
type List struct {
	container
	Type        ListType
	StartNumber int
}

func (*List) ElementType() string { return "List" }

// ListItem is one list entry. Content is the text after the bullet and the
// optional checkbox marker; Children holds the parsed inline spans.
type ListItem struct {
	container
	Content    string
	IsCheckbox bool
	IsChecked  bool
}

func (*ListItem) ElementType() string { return "ListItem" }

// DescriptionList groups "term:: description" items. Type is always
// Definition.
type DescriptionList struct {
	container
	Type ListType
}

func (*DescriptionList) ElementType() string { return "DescriptionList" }

// DescriptionListItem is one "term:: description" entry.
type DescriptionListItem struct {
	container
	Term        string
	Description string
}

func (*DescriptionListItem) ElementType() string { return "DescriptionListItem" }

// Table is a delimited table; its children are TableRows. Header is an
// optional distinguished header row for consumers that want one: the parser
// itself never populates it, all parsed rows are body rows.
type Table struct {
	container
	Header *TableHeader
}

func (*Table) ElementType() string { return "Table" }

// TableRow is one body row; its children are TableCells.
type TableRow struct {
	container
}

func (*TableRow) ElementType() string { return "TableRow" }

// TableCell is one cell of a row.
type TableCell struct {
	container
	Content   string
	ColSpan   int
	RowSpan   int
	Alignment string
	IsHeader  bool
}

func (*TableCell) ElementType() string { return "TableCell" }

// TableHeader is a distinguished header row; its children are TableCells.
type TableHeader struct {
	container
}

func (*TableHeader) ElementType() string { return "TableHeader" }

// CodeBlock is a "----" delimited block with an optional source language.
type CodeBlock struct {
	container
	Content  string
	Language string
}

func (*CodeBlock) ElementType() string { return "CodeBlock" }

// Listing is a "[listing]" or "[source]" styled verbatim block.
type Listing struct {
	container
	Content string
	Title   string
}

func (*Listing) ElementType() string { return "Listing" }

// Literal is a "[literal]" styled or "...." delimited block whose lines
// are preserved exactly.
type Literal struct {
	container
	Content string
	Title   string
}

func (*Literal) ElementType() string { return "Literal" }

// Verse is a "[verse]" styled quote block that preserves line breaks.
type Verse struct {
	container
	Content  string
	Author   string
	Citation string
}

func (*Verse) ElementType() string { return "Verse" }

// Passthrough is a "++++" delimited block whose content must reach the
// output unprocessed.
type Passthrough struct {
	container
	Content       string
	Substitutions []string
}

func (*Passthrough) ElementType() string { return "Passthrough" }

// BlockQuote is a "____" delimited quotation.
type BlockQuote struct {
	container
	Content     string
	Attribution string
	Cite        string
}

func (*BlockQuote) ElementType() string { return "BlockQuote" }

// Sidebar is a "****" delimited container of nested block elements.
type Sidebar struct {
	container
}

func (*Sidebar) ElementType() string { return "Sidebar" }

// Example is a "====" delimited container of nested block elements.
type Example struct {
	container
}

func (*Example) ElementType() string { return "Example" }

// Open is a "--" delimited container. MasqueradeType carries the alternate
// role declared by a style attribute, such as "sidebar" or "example".
type Open struct {
	container
	MasqueradeType string
}

func (*Open) ElementType() string { return "Open" }

// An AdmonitionType is the kind of an Admonition.
type AdmonitionType uint32

const (
	Note AdmonitionType = iota
	Tip
	Important
	Warning
	Caution
)

// String returns the upper-case admonition label as written in the source.
func (t AdmonitionType) String() string {
	switch t {
	case Note:
		return "NOTE"
	case Tip:
		return "TIP"
	case Important:
		return "IMPORTANT"
	case Warning:
		return "WARNING"
	case Caution:
		return "CAUTION"
	}
	return "Invalid(" + strconv.Itoa(int(t)) + ")"
}

// admonitionTypes maps the source labels to their AdmonitionType.
var admonitionTypes = map[string]AdmonitionType{
	"NOTE":      Note,
	"TIP":       Tip,
	"IMPORTANT": Important,
	"WARNING":   Warning,
	"CAUTION":   Caution,
}

// Admonition is a "NOTE: text" style callout.
type Admonition struct {
	container
	Type    AdmonitionType
	Content string
}

func (*Admonition) ElementType() string { return "Admonition" }

// Anchor is an "[[id]]" or "[[id,label]]" in-document target.
type Anchor struct {
	container
	Id    string
	Label string
}

func (*Anchor) ElementType() string { return "Anchor" }

// CrossReference is a "<<target>>" or "<<target,text>>" link to an anchor.
type CrossReference struct {
	container
	TargetId string
	LinkText string
}

func (*CrossReference) ElementType() string { return "CrossReference" }

// Footnote is a footnote definition or reference. A definition carries the
// text and the label assigned from the document-wide footnote counter; a
// reference (IsReference true) carries only the id of the definition it
// points at.
type Footnote struct {
	container
	Id             string
	Text           string
	ReferenceLabel string
	IsReference    bool
}

func (*Footnote) ElementType() string { return "Footnote" }

// TableOfContents is the placeholder produced by "toc::[]". Entries is
// populated from the document's sections after the main parse pass.
type TableOfContents struct {
	container
	Title    string
	MaxDepth int
	Entries  []*TableOfContentsEntry
}

func (*TableOfContents) ElementType() string { return "TableOfContents" }

// TableOfContentsEntry is one section reference inside a TableOfContents.
// Entries holds the nested sub-section entries.
type TableOfContentsEntry struct {
	container
	Title   string
	Id      string
	Level   int
	Entries []*TableOfContentsEntry
}

func (*TableOfContentsEntry) ElementType() string { return "TableOfContentsEntry" }

// Inline leaf nodes. Each one is a single styled span of a paragraph or
// list item; none of them has children.

// Text is an unstyled run of characters.
type Text struct {
	container
	Content string
}

func (*Text) ElementType() string { return "Text" }

// Emphasis is an "_italic_" span.
type Emphasis struct {
	container
	Content string
}

func (*Emphasis) ElementType() string { return "Emphasis" }

// Strong is a "*bold*" span.
type Strong struct {
	container
	Content string
}

func (*Strong) ElementType() string { return "Strong" }

// Highlight is a "#marked#" span.
type Highlight struct {
	container
	Content string
}

func (*Highlight) ElementType() string { return "Highlight" }

// Superscript is a "^super^" span.
type Superscript struct {
	container
	Content string
}

func (*Superscript) ElementType() string { return "Superscript" }

// Subscript is a "~sub~" span.
type Subscript struct {
	container
	Content string
}

func (*Subscript) ElementType() string { return "Subscript" }

// InlineCode is a "`code`" span.
type InlineCode struct {
	container
	Content string
}

func (*InlineCode) ElementType() string { return "InlineCode" }

// Link is a bare or bracketed URL span.
type Link struct {
	container
	URL  string
	Text string
}

func (*Link) ElementType() string { return "Link" }

// Image is an inline image reference.
type Image struct {
	container
	Source string
	Alt    string
}

func (*Image) ElementType() string { return "Image" }
