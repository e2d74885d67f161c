package display

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeHTML(t *testing.T, n *Node, opts HTMLOptions) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, WriteHTML(&b, n, opts))
	return b.String()
}

func TestWriteHTMLEscapesText(t *testing.T) {
	got := writeHTML(t, Paragraph(Text("<b>&</b>")), HTMLOptions{})
	assert.Equal(t, "<p>&lt;b&gt;&amp;&lt;/b&gt;</p>", got)
}

func TestWriteHTMLSanitizesRawHTML(t *testing.T) {
	got := writeHTML(t, HTML(`<em>ok</em><script>alert(1)</script>`), HTMLOptions{})
	assert.Contains(t, got, "<em>ok</em>")
	assert.NotContains(t, got, "script")
}

func TestWriteHTMLURLs(t *testing.T) {
	testCases := []struct {
		name string
		node *Node
		want string
	}{
		{"http link", Link("https://x.dev/a?b=1&c", Text("x")), `<a href="https://x.dev/a?b=1&amp;c" target="_blank" rel="noopener noreferrer">x</a>`},
		{"relative link", Link("/docs", Text("d")), `<a href="/docs" target="_blank" rel="noopener noreferrer">d</a>`},
		{"javascript link", Link("javascript:alert(1)", Text("x")), `x`},
		{"data image", Image("data:image/png;base64,AA==", "pic"), `<img src="data:image/png;base64,AA==" alt="pic">`},
		{"data link", Link("data:text/html,hi", Text("x")), `x`},
		{"bad image", Image("vbscript:x", "alt"), `alt`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, writeHTML(t, tc.node, HTMLOptions{}))
		})
	}
}

func TestWriteHTMLWidgets(t *testing.T) {
	n := Item(
		Header(Icon("Bot"), Text("Step")),
		DurationBadge(1500, "chat-1"),
		Details("View value", Paragraph(Text("v"))),
		CodeBlock("go", "a < b"),
		Row("Key", Text("k")).WithTone(ToneMuted),
		Math("x^2", false),
	)
	got := writeHTML(t, n, HTMLOptions{})
	assert.Contains(t, got, `<div class="header"><span class="icon" data-icon="Bot"></span>Step</div>`)
	assert.Contains(t, got, `<span class="duration" data-chat-id="chat-1">1.5s</span>`)
	assert.Contains(t, got, `<details><summary>View value</summary><div><p>v</p></div></details>`)
	assert.Contains(t, got, `<pre><code class="language-go">a &lt; b</code></pre>`)
	assert.Contains(t, got, `<div class="row text-muted"><strong>Key:</strong> k</div>`)
	assert.Contains(t, got, `<span class="math math-inline">\(x^2\)</span>`)
}

func TestWriteHTMLToneClasses(t *testing.T) {
	n := ErrorBlock(Label("Error"))
	assert.Equal(t, `<div class="error text-error"><div class="label"><strong>Error:</strong></div></div>`, writeHTML(t, n, HTMLOptions{}))

	custom := HTMLOptions{ToneClasses: map[Tone]string{ToneError: "danger"}}
	assert.Equal(t, `<div class="error danger"><div class="label"><strong>Error:</strong></div></div>`, writeHTML(t, n, custom))
}

func TestWriteHTMLTable(t *testing.T) {
	n := Table(
		TableRow(true, TableCell("", Text("a")), TableCell("right", Text("b"))),
		TableRow(false, TableCell("", Text("1")), TableCell("right", Text("2"))),
	)
	assert.Equal(t, `<table><tr><th>a</th><th style="text-align:right">b</th></tr><tr><td>1</td><td style="text-align:right">2</td></tr></table>`, writeHTML(t, n, HTMLOptions{}))
}
