package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// 字幕样式文件示例：
//
//	caption v1 {
//	  "First paragraph"
//	  "Second paragraph"
//	  vertical_placement: bottom
//	  bar_color: #202020
//	  bar_alpha: 0.6
//	}

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+|\.\d+)%?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[][(),.=+\-*/%<>!?;:]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Document is the root AST node of a caption style file.
type Document struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Version string         `parser:"Newline* 'caption' @Ident?"`
	Entries []*Entry       `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}' Newline*"`
}

// Entry is either a key/value assignment or a bare caption paragraph.
type Entry struct {
	Assignment *Assignment    `parser:"  @@"`
	Text       *StringLiteral `parser:"| @String"`
}

// Assignment uses colon or equals syntax (key: value / key = value).
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"( ':' | '=' ) Newline* @@"`
}

// Value is a scalar property value.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Color  *string        `parser:"| @Color"`
	Ident  *string        `parser:"| @Ident"`
}

// Scalar converts the value to string or float64. Percent numbers keep their
// numeric part ("25%" → 25).
func (v *Value) Scalar() (any, error) {
	switch {
	case v == nil:
		return nil, fmt.Errorf("缺少取值")
	case v.String != nil:
		return string(*v.String), nil
	case v.Number != nil:
		f, err := strconv.ParseFloat(strings.TrimSuffix(*v.Number, "%"), 64)
		if err != nil {
			return nil, fmt.Errorf("非法数字 %q: %w", *v.Number, err)
		}
		return f, nil
	case v.Color != nil:
		return *v.Color, nil
	case v.Ident != nil:
		return *v.Ident, nil
	}
	return nil, fmt.Errorf("缺少取值")
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// TextKey is the key that bare string entries are collected under.
const TextKey = "text"

// Values flattens the document into key → scalar. Bare string entries are
// joined with "\n" into TextKey; combining them with an explicit text key, or
// repeating a key, is an error.
func (d *Document) Values() (map[string]any, error) {
	out := map[string]any{}
	var paragraphs []string
	for _, e := range d.Entries {
		switch {
		case e.Text != nil:
			paragraphs = append(paragraphs, string(*e.Text))
		case e.Assignment != nil:
			a := e.Assignment
			if _, dup := out[a.Key]; dup {
				return nil, fmt.Errorf("%s: 重复的键 %s", a.Pos, a.Key)
			}
			v, err := a.Value.Scalar()
			if err != nil {
				return nil, fmt.Errorf("%s: %s: %w", a.Pos, a.Key, err)
			}
			out[a.Key] = v
		}
	}
	if len(paragraphs) > 0 {
		if _, dup := out[TextKey]; dup {
			return nil, fmt.Errorf("文本段落与 %s 键不能同时出现", TextKey)
		}
		out[TextKey] = strings.Join(paragraphs, "\n")
	}
	return out, nil
}

// Position returns where key was assigned, or the document position.
func (d *Document) Position(key string) lexer.Position {
	for _, e := range d.Entries {
		if e.Assignment != nil && e.Assignment.Key == key {
			return e.Assignment.Pos
		}
	}
	return d.Pos
}

// Parse parses DSL content from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString parses DSL content from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}
