package richtext

import (
	stdhtml "html"
	"html/template"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"

	md "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	mdhtml "github.com/gomarkdown/markdown/html"
)

// LinkResolver maps a document link to a site path.
type LinkResolver func(link Link) string

type Options struct {
	RootURL      string
	LinkResolver LinkResolver
}

// DefaultLinkResolver sends posts to their page and every other document home.
func DefaultLinkResolver(link Link) string {
	if link.IsBroken {
		return "#"
	}
	if link.Type == "posts" && link.UID != "" {
		return "/post/" + url.PathEscape(link.UID)
	}
	return "/"
}

type imageBlock struct {
	ast.Leaf
	Block Block
	Href  string
	Attrs []string
}

type embedBlock struct {
	ast.Leaf
	Embed Embed
}

type labelSpan struct {
	ast.Container
	Label string
}

type spanRange struct {
	start int
	end   int
	span  Span
}

func AsHTML(blocks RichText, opts Options) template.HTML {
	if len(blocks) == 0 {
		return template.HTML("")
	}
	if opts.LinkResolver == nil {
		opts.LinkResolver = DefaultLinkResolver
	}

	doc := buildDocument(blocks, opts)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags:          mdhtml.SkipHTML,
		RenderNodeHook: renderNodeHook,
	})

	return template.HTML(md.Render(doc, renderer))
}

func buildDocument(blocks RichText, opts Options) *ast.Document {
	doc := &ast.Document{}

	var list *ast.List
	var listType string
	for _, block := range blocks {
		if block.Type != BlockListItem && block.Type != BlockOListItem {
			list = nil
		}

		switch {
		case headingLevel(block.Type) > 0:
			heading := &ast.Heading{Level: headingLevel(block.Type)}
			appendBlockText(heading, block, opts)
			ast.AppendChild(doc, heading)
		case block.Type == BlockParagraph:
			paragraph := &ast.Paragraph{}
			appendBlockText(paragraph, block, opts)
			ast.AppendChild(doc, paragraph)
		case block.Type == BlockPre:
			codeBlock := &ast.CodeBlock{}
			codeBlock.Literal = []byte(block.Text)
			ast.AppendChild(doc, codeBlock)
		case block.Type == BlockListItem || block.Type == BlockOListItem:
			flags := ast.ListType(0)
			if block.Type == BlockOListItem {
				flags = ast.ListTypeOrdered
			}
			if list == nil || listType != block.Type {
				list = &ast.List{ListFlags: flags, Tight: true}
				listType = block.Type
				ast.AppendChild(doc, list)
			}
			item := &ast.ListItem{ListFlags: flags, Tight: true}
			appendBlockText(item, block, opts)
			ast.AppendChild(list, item)
		case block.Type == BlockImage:
			if block.URL == "" {
				continue
			}
			image := &imageBlock{Block: block}
			if block.LinkTo != nil {
				image.Href, image.Attrs = resolveLink(*block.LinkTo, opts)
			}
			ast.AppendChild(doc, image)
		case block.Type == BlockEmbed:
			if block.Oembed == nil {
				continue
			}
			ast.AppendChild(doc, &embedBlock{Embed: *block.Oembed})
		}
	}

	return doc
}

func appendBlockText(parent ast.Node, block Block, opts Options) {
	units := utf16.Encode([]rune(block.Text))

	spans := make([]spanRange, 0, len(block.Spans))
	for _, span := range block.Spans {
		start := clamp(span.Start, 0, len(units))
		end := clamp(span.End, 0, len(units))
		if start >= end {
			continue
		}
		spans = append(spans, spanRange{start: start, end: end, span: span})
	}

	appendInlines(parent, units, 0, len(units), spans, opts)
}

// appendInlines nests spans contained in an earlier span and splits spans that
// cross its end.
func appendInlines(parent ast.Node, units []uint16, start int, end int, spans []spanRange, opts Options) {
	sortSpans(spans)

	cursor := start
	for len(spans) > 0 {
		current := spans[0]
		spans = spans[1:]
		if current.start < cursor {
			current.start = cursor
		}
		if current.start >= current.end {
			continue
		}

		appendText(parent, units[cursor:current.start])

		var inner, rest []spanRange
		for _, other := range spans {
			switch {
			case other.start >= current.end:
				rest = append(rest, other)
			case other.end <= current.end:
				inner = append(inner, other)
			default:
				inner = append(inner, spanRange{start: other.start, end: current.end, span: other.span})
				rest = append(rest, spanRange{start: current.end, end: other.end, span: other.span})
			}
		}

		container := parent
		if node := spanNode(current.span, opts); node != nil {
			ast.AppendChild(parent, node)
			container = node
		}
		appendInlines(container, units, current.start, current.end, inner, opts)

		cursor = current.end
		spans = rest
		sortSpans(spans)
	}

	appendText(parent, units[cursor:end])
}

func sortSpans(spans []spanRange) {
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end > spans[j].end
	})
}

func spanNode(span Span, opts Options) ast.Node {
	switch span.Type {
	case SpanStrong:
		return &ast.Strong{}
	case SpanEm:
		return &ast.Emph{}
	case SpanHyperlink:
		if span.Data == nil {
			return nil
		}
		href, attrs := resolveLink(span.Data.Link, opts)
		return &ast.Link{Destination: []byte(href), AdditionalAttributes: attrs}
	case SpanLabel:
		if span.Data == nil || strings.TrimSpace(span.Data.Label) == "" {
			return nil
		}
		return &labelSpan{Label: span.Data.Label}
	default:
		return nil
	}
}

func appendText(parent ast.Node, units []uint16) {
	if len(units) == 0 {
		return
	}

	lines := strings.Split(string(utf16.Decode(units)), "\n")
	for idx, line := range lines {
		if idx > 0 {
			ast.AppendChild(parent, &ast.Hardbreak{})
		}
		if line == "" {
			continue
		}
		text := &ast.Text{}
		text.Literal = []byte(line)
		ast.AppendChild(parent, text)
	}
}

func resolveLink(link Link, opts Options) (string, []string) {
	var href string
	switch link.LinkType {
	case LinkTypeDocument:
		href = opts.LinkResolver(link)
	default:
		href = strings.TrimSpace(link.URL)
		if href == "" {
			href = "#"
		}
	}
	href = safeHref(href)

	normalized, isCurrentWebsite := normalizeCurrentWebsiteLink(href, opts.RootURL)
	isInternal := isCurrentWebsite || link.LinkType == LinkTypeDocument || strings.HasPrefix(normalized, "/") || strings.HasPrefix(normalized, "#")
	return normalized, linkAttributes(link.Target, isInternal)
}

var safeLinkSchemes = map[string]struct{}{
	"http":   {},
	"https":  {},
	"mailto": {},
	"tel":    {},
}

// safeHref replaces hrefs with a scheme outside safeLinkSchemes by "#".
// Relative paths and fragments pass through.
func safeHref(href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return "#"
	}
	if parsed.Scheme == "" {
		return href
	}
	if _, ok := safeLinkSchemes[strings.ToLower(parsed.Scheme)]; !ok {
		return "#"
	}
	return href
}

func normalizeCurrentWebsiteLink(href string, rootURL string) (string, bool) {
	if rootURL == "" || !strings.HasPrefix(href, rootURL) {
		return href, false
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return href, true
	}

	normalized := parsed.Path
	if normalized == "" {
		normalized = "/"
	}
	if parsed.RawQuery != "" {
		normalized += "?" + parsed.RawQuery
	}
	if parsed.Fragment != "" {
		normalized += "#" + parsed.Fragment
	}

	return normalized, true
}

func linkAttributes(target string, isInternal bool) []string {
	attrs := make([]string, 0, 2)
	if target = strings.TrimSpace(target); target != "" {
		attrs = append(attrs, `target="`+stdhtml.EscapeString(target)+`"`)
	}
	if !isInternal {
		attrs = append(attrs, `rel="noopener noreferrer"`)
	}
	return attrs
}

func renderNodeHook(writer io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
	switch typedNode := node.(type) {
	case *labelSpan:
		if entering {
			_, _ = io.WriteString(writer, `<span class="`+stdhtml.EscapeString(typedNode.Label)+`">`)
		} else {
			_, _ = io.WriteString(writer, `</span>`)
		}
		return ast.GoToNext, true
	}

	if !entering {
		return ast.GoToNext, false
	}

	switch typedNode := node.(type) {
	case *ast.CodeBlock:
		renderCodeBlock(writer, typedNode)
		return ast.SkipChildren, true
	case *imageBlock:
		renderImage(writer, typedNode)
		return ast.SkipChildren, true
	case *embedBlock:
		renderEmbed(writer, typedNode.Embed)
		return ast.SkipChildren, true
	default:
		return ast.GoToNext, false
	}
}

func renderImage(writer io.Writer, image *imageBlock) {
	block := image.Block
	alt := ""
	if block.Alt != nil {
		alt = *block.Alt
	}

	var img strings.Builder
	img.WriteString(`<img src="` + stdhtml.EscapeString(block.URL) + `" alt="` + stdhtml.EscapeString(alt) + `"`)
	if block.Copyright != nil && *block.Copyright != "" {
		img.WriteString(` copyright="` + stdhtml.EscapeString(*block.Copyright) + `"`)
	}
	if block.Dimensions != nil && block.Dimensions.Width > 0 && block.Dimensions.Height > 0 {
		img.WriteString(` width="` + strconv.Itoa(block.Dimensions.Width) + `" height="` + strconv.Itoa(block.Dimensions.Height) + `"`)
	}
	img.WriteString(` loading="lazy">`)

	_, _ = io.WriteString(writer, "\n"+`<p class="block-img">`)
	if image.Href != "" {
		attrs := ""
		if len(image.Attrs) > 0 {
			attrs = " " + strings.Join(image.Attrs, " ")
		}
		_, _ = io.WriteString(writer, `<a href="`+stdhtml.EscapeString(image.Href)+`"`+attrs+`>`+img.String()+`</a>`)
	} else {
		_, _ = io.WriteString(writer, img.String())
	}
	_, _ = io.WriteString(writer, "</p>\n")
}

func renderEmbed(writer io.Writer, embed Embed) {
	_, _ = io.WriteString(writer, "\n"+`<div data-oembed="`+stdhtml.EscapeString(embed.EmbedURL)+
		`" data-oembed-type="`+stdhtml.EscapeString(embed.Type)+
		`" data-oembed-provider="`+stdhtml.EscapeString(embed.ProviderName)+`">`)
	_, _ = io.WriteString(writer, embed.HTML)
	_, _ = io.WriteString(writer, "</div>\n")
}

func clamp(value int, low int, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
