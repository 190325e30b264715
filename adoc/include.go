package adoc

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// maxIncludeDepth bounds include nesting so that a long non-circular chain
// fails with a reportable error instead of exhausting the call stack.
const maxIncludeDepth = 64

var (
	reTagStart = regexp.MustCompile(`^\s*//\s*tag::([\w-]+)\[\]\s*$`)
	reTagEnd   = regexp.MustCompile(`^\s*//\s*end::([\w-]+)\[\]\s*$`)
)

// ProcessInclude resolves, reads, filters and parses the file referenced
// by inc and returns its top-level elements, detached and ready to attach
// at the include site. A missing or unreadable file yields no elements
// when the include is optional and a *ParseError otherwise. A circular
// reference always yields a *ParseError, optional or not.
func ProcessInclude(inc *IncludeMacro, basePath string, includeStack []string) ([]Element, error) {
	return processInclude(nil, inc, basePath, includeStack)
}

// processInclude is ProcessInclude with a calling context, so that document
// attributes and footnote numbering continue across the file boundary. The
// context may be nil.
func processInclude(parent *ParseContext, inc *IncludeMacro, basePath string, includeStack []string) ([]Element, error) {
	resolved, err := ResolveIncludePath(inc.Path(), basePath)
	if err != nil {
		if inc.Optional() {
			return nil, nil
		}
		return nil, includeErrorf(inc.Path(), includeStack, "cannot resolve include path: %v", err)
	}

	// The cycle check comes before everything else and is never softened
	// by the optional flag
	if WouldCreateCircularReference(resolved, includeStack) {
		from := resolved
		if n := len(includeStack); n > 0 {
			from = includeStack[n-1]
		}
		return nil, includeErrorf(resolved, includeStack,
			"Circular include detected: %s is included again from %s", resolved, from)
	}
	if len(includeStack) >= maxIncludeDepth {
		return nil, includeErrorf(resolved, includeStack, "include depth exceeds %d files", maxIncludeDepth)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if inc.Optional() {
			return nil, nil
		}
		if os.IsNotExist(err) {
			return nil, includeErrorf(resolved, includeStack, "include file not found: %s", resolved)
		}
		return nil, includeErrorf(resolved, includeStack, "cannot read include file: %v", err)
	}

	content := string(data)
	if spec := inc.Lines(); spec != "" {
		content = filterIncludeLines(content, spec)
	}
	if tags := inc.Tags(); len(tags) > 0 {
		content = filterIncludeTags(content, tags)
	}
	if n := inc.Indent(); n > 0 {
		content = indentLines(content, n)
	}
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	subCtx := newIncludeContext(parent, content, resolved, includeStack)
	doc, err := parseDocument(subCtx)
	if err != nil {
		// A structural error inside the included file reports the chain
		// that led to it; errors from deeper includes already carry theirs
		var perr *ParseError
		if errors.As(err, &perr) && perr.Chain == nil {
			perr.Chain = subCtx.IncludeStack
		}
		return nil, err
	}

	if parent != nil {
		// Attribute lines and footnotes of the included file take effect
		// in the including document as well
		for name, value := range subCtx.GlobalAttributes {
			parent.GlobalAttributes[name] = value
		}
		parent.footnoteSeq = subCtx.footnoteSeq
		for id, label := range subCtx.footnoteLabels {
			parent.footnoteLabels[id] = label
		}
	}

	els := detachChildren(doc)
	if offset := inc.LevelOffset(); offset != 0 {
		els = applyLevelOffset(els, offset)
	}
	return els, nil
}

// newIncludeContext builds the context for parsing an included file: the
// include stack grows by the resolved path, and the parent's attributes
// and footnote state carry over.
func newIncludeContext(parent *ParseContext, content, resolved string, includeStack []string) *ParseContext {
	opts := Options{BasePath: filepath.Dir(resolved)}
	if parent != nil {
		opts.Logger = parent.logger
		opts.Config = parent.config
	}

	ctx := NewParseContext(content, opts)
	ctx.CurrentFilePath = resolved
	ctx.IncludeStack = append(append([]string{}, includeStack...), resolved)
	if parent != nil {
		for name, value := range parent.GlobalAttributes {
			ctx.GlobalAttributes[name] = value
		}
		ctx.footnoteSeq = parent.footnoteSeq
		for id, label := range parent.footnoteLabels {
			ctx.footnoteLabels[id] = label
		}
	}
	return ctx
}

// detachChildren removes and returns all top-level elements of doc so they
// can be attached elsewhere.
func detachChildren(doc *Document) []Element {
	els := make([]Element, len(doc.Elements()))
	copy(els, doc.Elements())
	for _, el := range els {
		RemoveChild(doc, el)
	}
	return els
}

// applyLevelOffset rebuilds every top-level section with its level shifted
// by offset, clamped to 1. The original section nodes are discarded; their
// children and attributes move to the replacements.
func applyLevelOffset(els []Element, offset int) []Element {
	for i, el := range els {
		sec, ok := el.(*Section)
		if !ok {
			continue
		}
		level := sec.Level + offset
		if level < 1 {
			level = 1
		}
		shifted := &Section{Title: sec.Title, Level: level}
		for name, value := range sec.Attributes() {
			shifted.SetAttribute(name, value)
		}
		ReparentChildren(shifted, sec)
		els[i] = shifted
	}
	return els
}

// ResolveIncludePath resolves path against basePath and canonicalizes it.
// Absolute paths only get cleaned. A basePath naming a file stands for its
// directory; an empty one stands for the working directory.
func ResolveIncludePath(path, basePath string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	base := basePath
	if base != "" {
		if fi, err := os.Stat(base); err == nil && !fi.IsDir() {
			base = filepath.Dir(base)
		}
	}
	return filepath.Abs(filepath.Join(base, path))
}

// WouldCreateCircularReference reports whether path is already being
// expanded. The comparison is case-insensitive over canonical paths.
func WouldCreateCircularReference(path string, includeStack []string) bool {
	cleaned := filepath.Clean(path)
	for _, p := range includeStack {
		if strings.EqualFold(filepath.Clean(p), cleaned) {
			return true
		}
	}
	return false
}

// filterIncludeLines keeps only the source lines selected by spec: a comma
// separated list of single line numbers and "start..end" ranges, 1-based,
// with -1 standing for the last line. Selected parts are concatenated in
// the order they appear in spec.
func filterIncludeLines(content, spec string) string {
	src := strings.Split(content, "\n")
	if n := len(src); n > 0 && src[n-1] == "" {
		src = src[:n-1]
	}

	resolve := func(s string) int {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0
		}
		if n == -1 {
			return len(src)
		}
		return n
	}

	var out []string
	for _, part := range strings.Split(spec, ",") {
		start, end, isRange := strings.Cut(part, "..")
		lo := resolve(start)
		hi := lo
		if isRange {
			hi = resolve(end)
		}
		if hi > len(src) {
			hi = len(src)
		}
		for i := lo; i >= 1 && i <= hi; i++ {
			out = append(out, src[i-1])
		}
	}
	return strings.Join(out, "\n")
}

// filterIncludeTags keeps only the lines inside requested "// tag::NAME[]"
// regions. The marker lines themselves never appear in the output; a line
// is kept when any tag open at that point is in the requested set.
func filterIncludeTags(content string, tags []string) string {
	requested := make(map[string]bool, len(tags))
	for _, t := range tags {
		requested[t] = true
	}

	open := map[string]bool{}
	var out []string
	for _, line := range strings.Split(content, "\n") {
		if m := reTagStart.FindStringSubmatch(line); m != nil {
			open[m[1]] = true
			continue
		}
		if m := reTagEnd.FindStringSubmatch(line); m != nil {
			delete(open, m[1])
			continue
		}
		for tag := range open {
			if requested[tag] {
				out = append(out, line)
				break
			}
		}
	}
	return strings.Join(out, "\n")
}

// indentLines prefixes every line with n spaces.
func indentLines(content string, n int) string {
	prefix := strings.Repeat(" ", n)
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
