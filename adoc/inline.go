package adoc

import (
	"regexp"
	"strings"
)

// inlinePatterns matches the styled spans inside running text. At every
// scan position all patterns are evaluated against the remaining text and
// the match starting earliest wins; on a tie the earlier entry in this list
// wins, which is why Footnote must stay ahead of the generic inline macro
// pattern (every footnote is also a well-formed macro).
var inlinePatterns = []struct {
	re    *regexp.Regexp
	build func(ctx *ParseContext, src string, loc []int) Element
}{
	{regexp.MustCompile(`\*\*(.+?)\*\*|\*([^*]+?)\*`), buildStrong},
	{regexp.MustCompile(`__(.+?)__|_([^_]+?)_`), buildEmphasis},
	{regexp.MustCompile(`#([^#]+?)#`), buildHighlight},
	{regexp.MustCompile(`\^([^^]+?)\^`), buildSuperscript},
	{regexp.MustCompile(`~([^~]+?)~`), buildSubscript},
	{regexp.MustCompile(`\x60([^\x60]+?)\x60`), buildInlineCode},
	{regexp.MustCompile(`(https?://[^\s\[\]]+)(?:\[([^\]]*)\])?`), buildLink},
	{regexp.MustCompile(`image::?([^\s\[\]]+)\[([^\]]*)\]`), buildImage},
	{regexp.MustCompile(`\[\[([^\]]+?)\]\]`), buildAnchor},
	{regexp.MustCompile(`<<([^>]+?)>>`), buildCrossReference},
	{regexp.MustCompile(`footnote:([\w-]*)\[([^\]]*)\]`), buildFootnote},
	{regexp.MustCompile(`(\w+):([^\s\[]*)\[([^\]]*)\]`), buildInlineMacro},
}

// ParseInlineText splits text into an ordered, non-overlapping sequence of
// inline nodes. Text outside any match becomes plain Text nodes; matched
// spans are not re-parsed, so styles do not nest.
func ParseInlineText(ctx *ParseContext, text string) []Element {
	var spans []Element
	for pos := 0; pos < len(text); {
		rest := text[pos:]

		best := -1
		var bestLoc []int
		for i, p := range inlinePatterns {
			loc := p.re.FindStringSubmatchIndex(rest)
			if loc == nil {
				continue
			}
			if best < 0 || loc[0] < bestLoc[0] {
				best = i
				bestLoc = loc
			}
		}

		if best < 0 {
			spans = append(spans, &Text{Content: rest})
			break
		}
		if bestLoc[0] > 0 {
			spans = append(spans, &Text{Content: rest[:bestLoc[0]]})
		}
		spans = append(spans, inlinePatterns[best].build(ctx, rest, bestLoc))
		pos += bestLoc[1]
	}
	return spans
}

// group returns the text of the n-th submatch, or "" when it did not
// participate in the match.
func group(src string, loc []int, n int) string {
	if 2*n+1 >= len(loc) || loc[2*n] < 0 {
		return ""
	}
	return src[loc[2*n]:loc[2*n+1]]
}

// firstGroup returns the first participating submatch, for patterns whose
// alternatives capture into different groups.
func firstGroup(src string, loc []int) string {
	for n := 1; 2*n+1 < len(loc); n++ {
		if loc[2*n] >= 0 {
			return src[loc[2*n]:loc[2*n+1]]
		}
	}
	return ""
}

func buildStrong(ctx *ParseContext, src string, loc []int) Element {
	return &Strong{Content: firstGroup(src, loc)}
}

func buildEmphasis(ctx *ParseContext, src string, loc []int) Element {
	return &Emphasis{Content: firstGroup(src, loc)}
}

func buildHighlight(ctx *ParseContext, src string, loc []int) Element {
	return &Highlight{Content: group(src, loc, 1)}
}

func buildSuperscript(ctx *ParseContext, src string, loc []int) Element {
	return &Superscript{Content: group(src, loc, 1)}
}

func buildSubscript(ctx *ParseContext, src string, loc []int) Element {
	return &Subscript{Content: group(src, loc, 1)}
}

func buildInlineCode(ctx *ParseContext, src string, loc []int) Element {
	return &InlineCode{Content: group(src, loc, 1)}
}

func buildLink(ctx *ParseContext, src string, loc []int) Element {
	return &Link{URL: group(src, loc, 1), Text: group(src, loc, 2)}
}

func buildImage(ctx *ParseContext, src string, loc []int) Element {
	params := ParseMacroParameters(group(src, loc, 2))
	return &Image{Source: group(src, loc, 1), Alt: params["alt"]}
}

// buildAnchor parses "[[id]]" or "[[id,label]]".
func buildAnchor(ctx *ParseContext, src string, loc []int) Element {
	id, label, _ := strings.Cut(group(src, loc, 1), ",")
	return &Anchor{Id: strings.TrimSpace(id), Label: strings.TrimSpace(label)}
}

// buildCrossReference parses "<<target>>" or "<<target,link text>>".
func buildCrossReference(ctx *ParseContext, src string, loc []int) Element {
	target, text, _ := strings.Cut(group(src, loc, 1), ",")
	return &CrossReference{TargetId: strings.TrimSpace(target), LinkText: strings.TrimSpace(text)}
}

// buildFootnote distinguishes the three footnote forms. "footnote:[text]"
// defines an anonymous footnote under a generated id; "footnote:id[text]"
// defines one under the given id; "footnote:id[]" references an earlier
// definition without advancing the label counter.
func buildFootnote(ctx *ParseContext, src string, loc []int) Element {
	id := group(src, loc, 1)
	text := group(src, loc, 2)

	if id != "" && text == "" {
		return &Footnote{
			Id:             id,
			IsReference:    true,
			ReferenceLabel: ctx.footnoteLabel(id),
		}
	}

	label := ctx.nextFootnoteLabel()
	if id == "" {
		id = "_footnotedef_" + label
	}
	ctx.rememberFootnote(id, label)
	return &Footnote{Id: id, Text: text, ReferenceLabel: label}
}

func buildInlineMacro(ctx *ParseContext, src string, loc []int) Element {
	return newMacroElement(group(src, loc, 1), group(src, loc, 2), group(src, loc, 3), MacroInline)
}
