package richtext

import (
	"bytes"
	stdhtml "html"
	"html/template"
	"io"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gomarkdown/markdown/ast"
)

const (
	chromaLightStyle = "github"
	chromaDarkStyle  = "dracula"
	codeTabWidth     = 2
)

var (
	chromaCSSOnce sync.Once
	chromaCSS     template.CSS
)

func newFormatter() *chromahtml.Formatter {
	return chromahtml.New(chromahtml.WithClasses(true), chromahtml.TabWidth(codeTabWidth))
}

// renderCodeBlock highlights a preformatted block. The language is guessed
// from the content since Prismic blocks carry none.
func renderCodeBlock(writer io.Writer, block *ast.CodeBlock) {
	code := string(block.Literal)
	iterator, err := pickLexer(code).Tokenise(nil, code)
	if err != nil {
		renderPlainCodeBlock(writer, code)
		return
	}

	var buffer bytes.Buffer
	if err := newFormatter().Format(&buffer, styles.Fallback, iterator); err != nil {
		renderPlainCodeBlock(writer, code)
		return
	}
	_, _ = writer.Write(buffer.Bytes())
}

func renderPlainCodeBlock(writer io.Writer, code string) {
	_, _ = io.WriteString(writer, `<pre class="chroma"><code>`)
	_, _ = io.WriteString(writer, stdhtml.EscapeString(code))
	_, _ = io.WriteString(writer, `</code></pre>`)
}

func pickLexer(code string) chroma.Lexer {
	if lexer := lexers.Analyse(code); lexer != nil {
		return chroma.Coalesce(lexer)
	}

	return lexers.Fallback
}

// ChromaCSS returns the stylesheet for highlighted blocks, light and dark.
func ChromaCSS() template.CSS {
	chromaCSSOnce.Do(func() {
		var out strings.Builder
		for _, scheme := range []struct{ media, style string }{
			{media: "light", style: chromaLightStyle},
			{media: "dark", style: chromaDarkStyle},
		} {
			css := styleCSS(scheme.style)
			if css == "" {
				continue
			}
			out.WriteString("@media (prefers-color-scheme: " + scheme.media + ") {\n")
			out.WriteString(css)
			out.WriteString("}\n")
		}
		chromaCSS = template.CSS(out.String())
	})

	return chromaCSS
}

func styleCSS(styleName string) string {
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	var buffer bytes.Buffer
	if err := newFormatter().WriteCSS(&buffer, style); err != nil {
		return ""
	}

	return buffer.String()
}
