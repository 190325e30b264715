package adoc

import (
	"fmt"
	"strconv"

	"github.com/hesusruiz/vcutils/yaml"
	"go.uber.org/zap"
)

// Options controls a parse. The zero value is usable: includes resolve
// against the working directory and logging is disabled.
type Options struct {
	// BasePath is the directory against which relative include paths are
	// resolved. It may also name a file, in which case the containing
	// directory is used. ParseFile sets it to the parsed file's directory.
	BasePath string

	// Logger receives debug and warning output. nil disables logging.
	Logger *zap.SugaredLogger

	// Config is an optional application configuration. Its
	// "adoc.attributes" map seeds the document attribute table.
	Config *yaml.YAML

	// Attributes seeds the document attribute table after Config and
	// before any ":name: value" line of the source takes effect.
	Attributes map[string]string
}

// A ParseContext is the mutable cursor of one parse: the token stream with
// a one-token lookahead, the document-wide attribute table, the include
// chain, and per-parse counters. Each top-level parse owns its context, so
// distinct parses never share state.
type ParseContext struct {
	tz *Tokenizer

	// CurrentToken is the one-token lookahead over the tokenizer.
	CurrentToken Token

	// GlobalAttributes is the document-wide attribute table fed by
	// ":name: value" lines.
	GlobalAttributes Attributes

	// ElementStack is a scoping aid for tree consumers such as the HTML
	// converter. Parsing itself never reads it.
	ElementStack []Element

	// CurrentFilePath names the source being parsed, for error messages.
	CurrentFilePath string

	// IncludeStack holds the canonical paths of the files currently being
	// expanded, outermost first. It is used for cycle detection.
	IncludeStack []string

	// footnoteSeq and footnoteLabels assign footnote reference labels.
	// They belong to the context so that parses are reentrant.
	footnoteSeq    int
	footnoteLabels map[string]string

	basePath string
	logger   *zap.SugaredLogger
	config   *yaml.YAML
}

// NewParseContext returns a context reading input, with the first token
// already loaded into CurrentToken.
func NewParseContext(input string, opts Options) *ParseContext {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	ctx := &ParseContext{
		tz:               NewTokenizer(input),
		GlobalAttributes: Attributes{},
		footnoteLabels:   map[string]string{},
		basePath:         opts.BasePath,
		logger:           logger,
		config:           opts.Config,
	}

	// Attributes from the configuration are weakest, explicit option
	// attributes override them, and the source's own attribute lines
	// override both
	if opts.Config != nil {
		for name, v := range opts.Config.Map("adoc.attributes") {
			ctx.GlobalAttributes[name] = fmt.Sprintf("%v", v)
		}
	}
	for name, value := range opts.Attributes {
		ctx.GlobalAttributes[name] = value
	}

	ctx.Advance()
	return ctx
}

// Advance pulls the next token from the tokenizer into CurrentToken. It
// does nothing once the end of the input is reached.
func (ctx *ParseContext) Advance() {
	if ctx.CurrentToken.Type == EndOfFileToken {
		return
	}
	ctx.CurrentToken = ctx.tz.NextToken()
}

// Accept advances over the current token if it has the given type and
// reports whether it did.
func (ctx *ParseContext) Accept(tt TokenType) bool {
	if ctx.CurrentToken.Type != tt {
		return false
	}
	ctx.Advance()
	return true
}

// Expect advances over the current token if it has the given type and
// returns a *ParseError otherwise.
func (ctx *ParseContext) Expect(tt TokenType) error {
	if ctx.CurrentToken.Type != tt {
		return parseErrorf(ctx.CurrentFilePath, ctx.CurrentToken,
			"expected %s, found %s", tt, ctx.CurrentToken)
	}
	ctx.Advance()
	return nil
}

// AtEOF reports whether the whole input has been consumed.
func (ctx *ParseContext) AtEOF() bool {
	return ctx.CurrentToken.Type == EndOfFileToken
}

// PushElement pushes an element on the scoping stack.
func (ctx *ParseContext) PushElement(e Element) {
	ctx.ElementStack = append(ctx.ElementStack, e)
}

// PopElement pops and returns the top of the scoping stack, or nil when
// the stack is empty.
func (ctx *ParseContext) PopElement() Element {
	if len(ctx.ElementStack) == 0 {
		return nil
	}
	e := ctx.ElementStack[len(ctx.ElementStack)-1]
	ctx.ElementStack = ctx.ElementStack[:len(ctx.ElementStack)-1]
	return e
}

// SetAttribute sets one document-wide attribute.
func (ctx *ParseContext) SetAttribute(name, value string) {
	ctx.GlobalAttributes[name] = value
}

// GetAttribute returns one document-wide attribute, or "".
func (ctx *ParseContext) GetAttribute(name string) string {
	return ctx.GlobalAttributes[name]
}

// nextFootnoteLabel advances the footnote counter and returns the new
// reference label.
func (ctx *ParseContext) nextFootnoteLabel() string {
	ctx.footnoteSeq++
	return strconv.Itoa(ctx.footnoteSeq)
}

// rememberFootnote records the label assigned to a footnote definition so
// that later references by id can reuse it.
func (ctx *ParseContext) rememberFootnote(id, label string) {
	ctx.footnoteLabels[id] = label
}

// footnoteLabel returns the label of a known definition. For an unknown id
// it returns the counter's current value without advancing it.
func (ctx *ParseContext) footnoteLabel(id string) string {
	if label, ok := ctx.footnoteLabels[id]; ok {
		return label
	}
	return strconv.Itoa(ctx.footnoteSeq)
}
