package richtext

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindMath is the goldmark node kind of inline and display math spans.
var KindMath = ast.NewNodeKind("Math")

// Math is a goldmark node holding TeX source written as $...$ (inline) or $$...$$ (display).
type Math struct {
	ast.BaseInline
	TeX     []byte
	Display bool
}

func (n *Math) Kind() ast.NodeKind {
	return KindMath
}

func (n *Math) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"TeX":     string(n.TeX),
		"Display": boolString(n.Display),
	}, nil)
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

type mathParser struct{}

func (p *mathParser) Trigger() []byte {
	return []byte{'$'}
}

// Parse recognizes math on a single line. "$" followed by whitespace does not open inline math; a closing "$" must not follow whitespace or be followed by a
// digit, so prices like "$5 and $6" stay text.
func (p *mathParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if len(line) < 3 || line[0] != '$' {
		return nil
	}

	if line[1] == '$' {
		for i := 2; i+1 < len(line); i++ {
			if line[i] == '\\' {
				i++
				continue
			}
			if line[i] == '$' && line[i+1] == '$' {
				if i == 2 {
					return nil
				}
				node := &Math{TeX: append([]byte(nil), line[2:i]...), Display: true}
				block.Advance(i + 2)
				return node
			}
		}
		return nil
	}

	if util.IsSpace(line[1]) {
		return nil
	}
	for i := 1; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '$':
			if util.IsSpace(line[i-1]) {
				continue
			}
			if i+1 < len(line) && line[i+1] >= '0' && line[i+1] <= '9' {
				continue
			}
			node := &Math{TeX: append([]byte(nil), line[1:i]...)}
			block.Advance(i + 1)
			return node
		}
	}
	return nil
}

type mathExtension struct{}

// MathExtension adds $...$ and $$...$$ math spans to a goldmark parser. It registers no renderer: the Converter turns Math nodes into display math nodes.
var MathExtension goldmark.Extender = &mathExtension{}

func (e *mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(&mathParser{}, 150),
	))
}
