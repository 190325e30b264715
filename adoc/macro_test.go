package adoc

import (
	"reflect"
	"testing"
)

func TestSplitMacroParameters(t *testing.T) {
	type args struct {
		s string
	}
	tests := []struct {
		name string
		args args
		want []string
	}{
		{"empty", args{""}, []string{""}},
		{"plain", args{"a,b,c"}, []string{"a", "b", "c"}},
		{"double quoted comma", args{`title="Hello, World",width=100`}, []string{`title="Hello, World"`, "width=100"}},
		{"single quoted comma", args{"alt='one, two'"}, []string{"alt='one, two'"}},
		{"trailing comma", args{"a,"}, []string{"a", ""}},
		{"unterminated quote", args{`a="b,c`}, []string{`a="b,c`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitMacroParameters(tt.args.s); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitMacroParameters() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseMacroParameters(t *testing.T) {
	type args struct {
		s string
	}
	tests := []struct {
		name string
		args args
		want Attributes
	}{
		{"empty", args{""}, Attributes{}},
		{"first positional doubles as alt and title", args{"Sunset"},
			Attributes{"alt": "Sunset", "title": "Sunset"}},
		{"later positionals are numbered", args{"Sunset,100,200"},
			Attributes{"alt": "Sunset", "title": "Sunset", "param1": "100", "param2": "200"}},
		{"named only", args{"width=640,height=480"},
			Attributes{"width": "640", "height": "480"}},
		{"quoted value keeps its comma", args{`alt="A, B",width=30`},
			Attributes{"alt": "A, B", "width": "30"}},
		{"spaces around key and value", args{" Photo , key = value "},
			Attributes{"alt": "Photo", "title": "Photo", "key": "value"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseMacroParameters(tt.args.s); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseMacroParameters() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewMacroElement(t *testing.T) {
	tests := []struct {
		name     string
		macro    string
		wantType string
	}{
		{"image", "image", "ImageMacro"},
		{"video", "video", "VideoMacro"},
		{"include", "include", "IncludeMacro"},
		{"unknown stays generic", "gallery", "Macro"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := newMacroElement(tt.macro, "target", "", MacroBlock)
			if got := el.ElementType(); got != tt.wantType {
				t.Errorf("newMacroElement(%s) = %s, want %s", tt.macro, got, tt.wantType)
			}
		})
	}
}

func TestImageMacroAlt(t *testing.T) {
	m := &ImageMacro{Macro: Macro{Target: "photos/sunset.png", Parameters: Attributes{}}}
	if got := m.Alt(); got != "sunset" {
		t.Errorf("Alt() = %q, want sunset", got)
	}

	m.Parameters["alt"] = "Evening sky"
	if got := m.Alt(); got != "Evening sky" {
		t.Errorf("Alt() = %q, want Evening sky", got)
	}
}

func TestVideoMacroControls(t *testing.T) {
	tests := []struct {
		name   string
		params Attributes
		want   bool
	}{
		{"absent defaults to true", Attributes{}, true},
		{"explicit false", Attributes{"controls": "false"}, false},
		{"explicit true", Attributes{"controls": "true"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &VideoMacro{Macro: Macro{Parameters: tt.params}}
			if got := m.Controls(); got != tt.want {
				t.Errorf("Controls() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVideoMacroFormat(t *testing.T) {
	tests := []struct {
		name   string
		target string
		params Attributes
		want   string
	}{
		{"format parameter wins", "movie.mp4", Attributes{"format": "ogg"}, "ogg"},
		{"webm extension", "clip.webm", Attributes{}, "webm"},
		{"uppercase extension", "CLIP.MOV", Attributes{}, "mov"},
		{"unknown extension falls back", "movie.xyz", Attributes{}, "mp4"},
		{"no extension falls back", "movie", Attributes{}, "mp4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &VideoMacro{Macro: Macro{Target: tt.target, Parameters: tt.params}}
			if got := m.VideoFormat(); got != tt.want {
				t.Errorf("VideoFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIncludeMacroAccessors(t *testing.T) {
	m := &IncludeMacro{Macro: Macro{
		Target: "chapters/intro.adoc",
		Parameters: Attributes{
			"lines":       "2..3",
			"tags":        "a; b;c;",
			"leveloffset": "+2",
			"indent":      "4",
			"optional":    "true",
		},
	}}

	if got := m.Path(); got != "chapters/intro.adoc" {
		t.Errorf("Path() = %q", got)
	}
	if got := m.Lines(); got != "2..3" {
		t.Errorf("Lines() = %q", got)
	}
	if got := m.Tags(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Tags() = %v", got)
	}
	if got := m.LevelOffset(); got != 2 {
		t.Errorf("LevelOffset() = %d, want 2", got)
	}
	if got := m.Indent(); got != 4 {
		t.Errorf("Indent() = %d, want 4", got)
	}
	if !m.Optional() {
		t.Error("Optional() = false, want true")
	}
}

func TestIncludeMacroDefaults(t *testing.T) {
	m := &IncludeMacro{Macro: Macro{Target: "x.adoc", Parameters: Attributes{}}}

	if m.Lines() != "" || m.Tags() != nil {
		t.Errorf("Lines() = %q, Tags() = %v, want empty", m.Lines(), m.Tags())
	}
	if got := m.LevelOffset(); got != 0 {
		t.Errorf("LevelOffset() = %d, want 0", got)
	}
	if got := m.Indent(); got != 0 {
		t.Errorf("Indent() = %d, want 0", got)
	}
	if m.Optional() {
		t.Error("Optional() = true, want false")
	}

	m.Parameters["leveloffset"] = "-1"
	if got := m.LevelOffset(); got != -1 {
		t.Errorf("LevelOffset() = %d, want -1", got)
	}
	m.Parameters["indent"] = "-3"
	if got := m.Indent(); got != 0 {
		t.Errorf("negative Indent() = %d, want 0", got)
	}
	m.Parameters["optional"] = "false"
	if m.Optional() {
		t.Error(`Optional() with "false" = true, want false`)
	}
}

func TestMacroTypeString(t *testing.T) {
	if got := MacroBlock.String(); got != "Block" {
		t.Errorf("MacroBlock.String() = %q", got)
	}
	if got := MacroInline.String(); got != "Inline" {
		t.Errorf("MacroInline.String() = %q", got)
	}
	if got := MacroType(9).String(); got != "Invalid(9)" {
		t.Errorf("invalid String() = %q", got)
	}
}
