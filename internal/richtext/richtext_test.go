package richtext

import (
	"testing"

	"github.com/agentdeck/agentdeck/internal/display"
	"github.com/agentdeck/agentdeck/internal/displaytesting"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func convert(src string, opts Options) *display.Node {
	return display.Block(Convert(src, opts)...)
}

func TestConvertInlineFormatting(t *testing.T) {
	displaytesting.AssertOutline(t, `
		block
		  paragraph
		    text "hello "
		    strong
		      text "world"
		    text ", "
		    emphasis
		      text "it"
		    text " "
		    strike
		      text "gone"
		    text " "
		    inline_code "x := 1"
	`, convert("hello **world**, *it* ~~gone~~ `x := 1`", Options{}))
}

func TestConvertSoftBreakAndEscapes(t *testing.T) {
	displaytesting.AssertOutline(t, `
		block
		  paragraph
		    text "a * b c"
	`, convert("a \\* b\nc", Options{}))
}

func TestConvertFencedCode(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		lang string
		code string
	}{
		{"python", "```python\nprint(1)\n```", "python", "print(1)"},
		{"info with attrs", "```go title=main.go\nx\ny\n```", "go", "x\ny"},
		{"non word language", "```c++\nint x;\n```", "c", "int x;"},
		{"no language", "```\nplain\n```", "", "plain"},
		{"indented", "    indented\n", "", "indented"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			nodes := Convert(tc.src, Options{})
			require.Len(t, nodes, 1)
			assert.Equal(t, display.CodeBlock(tc.lang, tc.code), nodes[0])
		})
	}
}

func TestConvertCursorPlaceholder(t *testing.T) {
	assert.Equal(t, display.Placeholder(), display.Find(convert("`▍`", Options{CursorPlaceholder: true}), display.KindPlaceholder))
	assert.Equal(t, []*display.Node{display.Placeholder()}, Convert("```\n▍\n```", Options{CursorPlaceholder: true}))

	off := convert("`▍`", Options{})
	assert.Nil(t, display.Find(off, display.KindPlaceholder))
	assert.Equal(t, "▍", display.Find(off, display.KindInlineCode).Text)
}

func TestConvertMath(t *testing.T) {
	displaytesting.AssertOutline(t, `
		block
		  paragraph
		    text "area "
		    math "x^2"
		    text " and "
		    math display "\\sum_i i"
	`, convert("area $x^2$ and $$\\sum_i i$$", Options{}))

	displaytesting.AssertOutline(t, `
		block
		  paragraph
		    text "$5 and $6"
	`, convert("$5 and $6", Options{}))

	assert.Nil(t, display.Find(convert("costs $ 5 or $ 6", Options{}), display.KindMath))
}

func TestConvertTable(t *testing.T) {
	displaytesting.AssertOutline(t, `
		block
		  table
		    table_row header
		      table_cell
		        text "a"
		      table_cell align=right
		        text "b"
		    table_row
		      table_cell
		        text "1"
		      table_cell align=right
		        text "2"
	`, convert("| a | b |\n|---|--:|\n| 1 | 2 |\n", Options{}))
}

func TestConvertLists(t *testing.T) {
	displaytesting.AssertOutline(t, `
		block
		  list
		    list_item checked=true
		      text "done"
		    list_item checked=false
		      text "todo"
	`, convert("- [x] done\n- [ ] todo\n", Options{}))

	displaytesting.AssertOutline(t, `
		block
		  list ordered start=3
		    list_item
		      text "three"
		    list_item
		      text "four"
	`, convert("3. three\n4. four\n", Options{}))
}

func TestConvertLinksAndImages(t *testing.T) {
	n := convert("[docs](https://x.dev/docs) ![alt text](/a.png) https://example.com", Options{})
	links := display.FindAll(n, display.KindLink)
	require.Len(t, links, 2)
	assert.Equal(t, "https://x.dev/docs", links[0].URL)
	assert.Equal(t, "docs", display.PlainText(links[0]))
	assert.Equal(t, "https://example.com", links[1].URL)

	img := display.Find(n, display.KindImage)
	require.NotNil(t, img)
	assert.Equal(t, "/a.png", img.URL)
	assert.Equal(t, "alt text", img.Text)
}

func TestConvertRawHTML(t *testing.T) {
	n := convert("<script>alert(1)</script>\n\ntext <b>bold</b>", Options{})
	htmls := display.FindAll(n, display.KindHTML)
	require.Len(t, htmls, 3)
	assert.Contains(t, htmls[0].Text, "<script>")
	assert.Equal(t, "<b>", htmls[1].Text)
	assert.Equal(t, "</b>", htmls[2].Text)
}

func TestConvertBlocks(t *testing.T) {
	displaytesting.AssertOutline(t, `
		block
		  heading level=2
		    text "Title"
		  blockquote
		    paragraph
		      text "quoted"
		  thematic_break
	`, convert("## Title\n\n> quoted\n\n---\n", Options{}))
}

func TestInline(t *testing.T) {
	c := New()
	assert.Equal(t, []*display.Node{display.Strong(display.Text("Step"))}, c.Inline("**Step**"))
	assert.Equal(t, []*display.Node{display.Text("Plain")}, c.Inline("Plain"))
	assert.Empty(t, c.Inline(""))
}
