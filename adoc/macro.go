package adoc

import (
	"path"
	"strconv"
	"strings"
)

// A MacroType tells whether a macro stood on its own line ("name::target[]")
// or appeared inside running text ("name:target[]").
type MacroType uint32

const (
	MacroBlock MacroType = iota
	MacroInline
)

// String returns a string representation of the MacroType.
func (t MacroType) String() string {
	switch t {
	case MacroBlock:
		return "Block"
	case MacroInline:
		return "Inline"
	}
	return "Invalid(" + strconv.Itoa(int(t)) + ")"
}

// Macro is a generic macro element. Macros with well-known names are
// wrapped by ImageMacro, VideoMacro or IncludeMacro, which layer typed
// accessors over the raw parameter table; unknown names stay generic
// Macro nodes and are carried through rather than rejected.
type Macro struct {
	container
	Name       string
	Target     string
	Parameters Attributes
	MacroType  MacroType
}

func (*Macro) ElementType() string { return "Macro" }

// Title returns the "title" parameter, or "".
func (m *Macro) Title() string {
	return m.Parameters["title"]
}

// Width returns the "width" parameter, or "".
func (m *Macro) Width() string {
	return m.Parameters["width"]
}

// Height returns the "height" parameter, or "".
func (m *Macro) Height() string {
	return m.Parameters["height"]
}

// ImageMacro is an "image::target[...]" element.
type ImageMacro struct {
	Macro
}

func (*ImageMacro) ElementType() string { return "ImageMacro" }

// Alt returns the alternative text: the "alt" parameter if given, else the
// base name of the target without its extension.
func (m *ImageMacro) Alt() string {
	if alt := m.Parameters["alt"]; alt != "" {
		return alt
	}
	name := path.Base(m.Target)
	return strings.TrimSuffix(name, path.Ext(name))
}

// VideoMacro is a "video::target[...]" element.
type VideoMacro struct {
	Macro
}

func (*VideoMacro) ElementType() string { return "VideoMacro" }

// Controls reports whether the player controls should be shown. It defaults
// to true when the "controls" parameter is absent.
func (m *VideoMacro) Controls() bool {
	v, ok := m.Parameters["controls"]
	if !ok {
		return true
	}
	return v != "false"
}

// VideoFormat returns the "format" parameter if given, else a guess from
// the target's file extension, else "mp4".
func (m *VideoMacro) VideoFormat() string {
	if f := m.Parameters["format"]; f != "" {
		return f
	}
	switch strings.ToLower(path.Ext(m.Target)) {
	case ".mp4":
		return "mp4"
	case ".webm":
		return "webm"
	case ".ogg":
		return "ogg"
	case ".avi":
		return "avi"
	case ".mov":
		return "mov"
	}
	return "mp4"
}

// IncludeMacro is an "include::path[...]" element. It survives in the tree
// only when include processing produced nothing to replace it with.
type IncludeMacro struct {
	Macro
}

func (*IncludeMacro) ElementType() string { return "IncludeMacro" }

// Path returns the include target as written in the source.
func (m *IncludeMacro) Path() string {
	return m.Target
}

// Lines returns the raw "lines" selection, such as "2..3" or "1,4,-1".
func (m *IncludeMacro) Lines() string {
	return m.Parameters["lines"]
}

// Tags returns the requested tag names. Multiple tags are separated by
// semicolons in the source.
func (m *IncludeMacro) Tags() []string {
	raw := m.Parameters["tags"]
	if raw == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(raw, ";") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// LevelOffset returns the "leveloffset" parameter as a signed number, or 0.
func (m *IncludeMacro) LevelOffset() int {
	n, err := strconv.Atoi(m.Parameters["leveloffset"])
	if err != nil {
		return 0
	}
	return n
}

// Indent returns the "indent" parameter as a number of spaces, or 0.
func (m *IncludeMacro) Indent() int {
	n, err := strconv.Atoi(m.Parameters["indent"])
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Optional reports whether a missing or unreadable target file should be
// tolerated. It never suppresses circular include errors.
func (m *IncludeMacro) Optional() bool {
	v, ok := m.Parameters["optional"]
	return ok && v != "false"
}

// newMacroElement builds the concrete node for a parsed macro. Well-known
// names get their typed wrapper; anything else stays a generic Macro.
func newMacroElement(name, target, params string, mt MacroType) Element {
	m := Macro{
		Name:       name,
		Target:     target,
		Parameters: ParseMacroParameters(params),
		MacroType:  mt,
	}
	switch name {
	case "image":
		return &ImageMacro{Macro: m}
	case "video":
		return &VideoMacro{Macro: m}
	case "include":
		return &IncludeMacro{Macro: m}
	}
	return &m
}

// SplitMacroParameters splits the bracketed parameter text of a macro on
// commas. Commas inside single or double quoted substrings do not split.
func SplitMacroParameters(s string) []string {
	var parts []string
	var b strings.Builder
	var quote byte // active quote character, 0 outside quotes
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
			b.WriteByte(c)
		case c == '\'' || c == '"':
			quote = c
			b.WriteByte(c)
		case c == ',':
			parts = append(parts, b.String())
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}
	parts = append(parts, b.String())
	return parts
}

// ParseMacroParameters parses the bracketed parameter text of a macro into
// a parameter table. "key=value" parts become named parameters with one
// pair of surrounding quotes stripped from the value; the first positional
// part becomes both "alt" and "title"; later positional parts become
// "param1", "param2" and so on.
func ParseMacroParameters(s string) Attributes {
	params := Attributes{}
	positional := 0
	for _, part := range SplitMacroParameters(s) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if key, value, ok := splitKeyValue(part); ok {
			params[key] = value
			continue
		}
		positional++
		if positional == 1 {
			params["alt"] = part
			params["title"] = part
		} else {
			params["param"+strconv.Itoa(positional-1)] = part
		}
	}
	return params
}

// splitKeyValue splits one "key=value" parameter part. Parts without "="
// or starting with it are positional.
func splitKeyValue(part string) (key, value string, ok bool) {
	i := strings.IndexByte(part, '=')
	if i <= 0 {
		return "", "", false
	}
	return strings.TrimSpace(part[:i]), unquote(strings.TrimSpace(part[i+1:])), true
}

// unquote strips one pair of matching single or double quotes.
func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
