package richtext

import (
	"strings"
	"testing"
)

func mustParse(t *testing.T, raw string) RichText {
	t.Helper()

	blocks, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("parse rich text: %v", err)
	}
	return blocks
}

func TestAsHTML_RendersHeadingsAndParagraphs(t *testing.T) {
	html := string(AsHTML(mustParse(t, `[
		{"type": "heading2", "text": "Proin et varius", "spans": []},
		{"type": "paragraph", "text": "Nullam dolor sapien", "spans": [{"start": 0, "end": 6, "type": "strong"}]}
	]`), Options{}))

	if !strings.Contains(html, "<h2>Proin et varius</h2>") {
		t.Fatalf("expected heading, got %s", html)
	}
	if !strings.Contains(html, "<p><strong>Nullam</strong> dolor sapien</p>") {
		t.Fatalf("expected paragraph with strong span, got %s", html)
	}
}

func TestAsHTML_SplitsCrossingSpans(t *testing.T) {
	html := string(AsHTML(mustParse(t, `[
		{"type": "paragraph", "text": "Hello brave world", "spans": [
			{"start": 6, "end": 17, "type": "em"},
			{"start": 0, "end": 11, "type": "strong"}
		]}
	]`), Options{}))

	if !strings.Contains(html, "<strong>Hello <em>brave</em></strong><em> world</em>") {
		t.Fatalf("expected crossing spans to be split, got %s", html)
	}
}

func TestAsHTML_NestsContainedSpans(t *testing.T) {
	html := string(AsHTML(mustParse(t, `[
		{"type": "paragraph", "text": "one two three", "spans": [
			{"start": 4, "end": 7, "type": "em"},
			{"start": 0, "end": 13, "type": "strong"}
		]}
	]`), Options{}))

	if !strings.Contains(html, "<strong>one <em>two</em> three</strong>") {
		t.Fatalf("expected nested spans, got %s", html)
	}
}

func TestAsHTML_UsesUTF16Offsets(t *testing.T) {
	html := string(AsHTML(mustParse(t, `[
		{"type": "paragraph", "text": "🚀 launch", "spans": [{"start": 3, "end": 9, "type": "strong"}]}
	]`), Options{}))

	if !strings.Contains(html, "🚀 <strong>launch</strong>") {
		t.Fatalf("expected span after surrogate pair, got %s", html)
	}
}

func TestAsHTML_IgnoresOutOfRangeSpans(t *testing.T) {
	html := string(AsHTML(mustParse(t, `[
		{"type": "paragraph", "text": "short", "spans": [
			{"start": 3, "end": 99, "type": "em"},
			{"start": 9, "end": 12, "type": "strong"}
		]}
	]`), Options{}))

	if !strings.Contains(html, "<p>sho<em>rt</em></p>") {
		t.Fatalf("expected clamped span, got %s", html)
	}
	if strings.Contains(html, "<strong>") {
		t.Fatalf("did not expect empty strong span, got %s", html)
	}
}

func TestAsHTML_GroupsListItems(t *testing.T) {
	html := string(AsHTML(mustParse(t, `[
		{"type": "list-item", "text": "first", "spans": []},
		{"type": "list-item", "text": "second", "spans": []},
		{"type": "paragraph", "text": "between", "spans": []},
		{"type": "o-list-item", "text": "one", "spans": []},
		{"type": "o-list-item", "text": "two", "spans": []}
	]`), Options{}))

	if strings.Count(html, "<ul>") != 1 || strings.Count(html, "<ol>") != 1 {
		t.Fatalf("expected one unordered and one ordered list, got %s", html)
	}
	for _, item := range []string{"<li>first</li>", "<li>second</li>", "<li>one</li>", "<li>two</li>"} {
		if !strings.Contains(html, item) {
			t.Fatalf("expected %s, got %s", item, html)
		}
	}
	if strings.Index(html, "</ul>") > strings.Index(html, "between") {
		t.Fatalf("expected list to close before paragraph, got %s", html)
	}
}

func TestAsHTML_ResolvesLinks(t *testing.T) {
	html := string(AsHTML(mustParse(t, `[
		{"type": "paragraph", "text": "doc web self broken", "spans": [
			{"start": 0, "end": 3, "type": "hyperlink", "data": {"link_type": "Document", "type": "posts", "uid": "outro-post"}},
			{"start": 4, "end": 7, "type": "hyperlink", "data": {"link_type": "Web", "url": "https://rocketseat.com.br", "target": "_blank"}},
			{"start": 8, "end": 12, "type": "hyperlink", "data": {"link_type": "Web", "url": "https://spacetraveling.dev/post/a?x=1#k"}},
			{"start": 13, "end": 19, "type": "hyperlink", "data": {"link_type": "Document", "isBroken": true}}
		]}
	]`), Options{RootURL: "https://spacetraveling.dev"}))

	if !strings.Contains(html, `href="/post/outro-post"`) {
		t.Fatalf("expected resolved document link, got %s", html)
	}
	if !strings.Contains(html, `target="_blank" rel="noopener noreferrer" href="https://rocketseat.com.br"`) {
		t.Fatalf("expected external link attributes, got %s", html)
	}
	if !strings.Contains(html, `<a href="/post/a?x=1#k">self</a>`) {
		t.Fatalf("expected same-site link normalized without attributes, got %s", html)
	}
	if !strings.Contains(html, `<a href="#">broken</a>`) {
		t.Fatalf("expected broken link to resolve to #, got %s", html)
	}
}

func TestAsHTML_NeutralizesScriptLinks(t *testing.T) {
	html := string(AsHTML(mustParse(t, `[
		{"type": "paragraph", "text": "click data mail", "spans": [
			{"start": 0, "end": 5, "type": "hyperlink", "data": {"link_type": "Web", "url": " JavaScript:alert(1)"}},
			{"start": 6, "end": 10, "type": "hyperlink", "data": {"link_type": "Web", "url": "data:text/html,<script>alert(1)</script>"}},
			{"start": 11, "end": 15, "type": "hyperlink", "data": {"link_type": "Web", "url": "mailto:contato@spacetraveling.dev"}}
		]},
		{"type": "image", "url": "https://images.prismic.io/a.png", "alt": "Rocket",
			"linkTo": {"link_type": "Web", "url": "vbscript:msgbox(1)"}}
	]`), Options{}))

	if strings.Contains(strings.ToLower(html), "script:") || strings.Contains(html, "data:") {
		t.Fatalf("expected script links to be neutralized, got %s", html)
	}
	if !strings.Contains(html, `<a href="#">click</a>`) || !strings.Contains(html, `<a href="#">data</a>`) {
		t.Fatalf("expected unsafe links to resolve to #, got %s", html)
	}
	if !strings.Contains(html, `href="mailto:contato@spacetraveling.dev"`) {
		t.Fatalf("expected mailto link kept, got %s", html)
	}
	if !strings.Contains(html, `<p class="block-img"><a href="#"><img`) {
		t.Fatalf("expected unsafe image link to resolve to #, got %s", html)
	}
}

func TestAsHTML_CustomLinkResolver(t *testing.T) {
	html := string(AsHTML(mustParse(t, `[
		{"type": "paragraph", "text": "page", "spans": [
			{"start": 0, "end": 4, "type": "hyperlink", "data": {"link_type": "Document", "type": "page", "uid": "about"}}
		]}
	]`), Options{LinkResolver: func(link Link) string { return "/" + link.UID }}))

	if !strings.Contains(html, `href="/about"`) {
		t.Fatalf("expected custom resolver href, got %s", html)
	}
}

func TestAsHTML_RendersNewlinesAndEscapesText(t *testing.T) {
	html := string(AsHTML(mustParse(t, `[
		{"type": "paragraph", "text": "line <one>\nline & two", "spans": []}
	]`), Options{}))

	if !strings.Contains(html, "line &lt;one&gt;<br") {
		t.Fatalf("expected escaped text and line break, got %s", html)
	}
	if !strings.Contains(html, "line &amp; two") {
		t.Fatalf("expected escaped ampersand, got %s", html)
	}
}

func TestAsHTML_RendersLabels(t *testing.T) {
	html := string(AsHTML(mustParse(t, `[
		{"type": "paragraph", "text": "run npm install", "spans": [
			{"start": 4, "end": 15, "type": "label", "data": {"label": "codeinline"}}
		]}
	]`), Options{}))

	if !strings.Contains(html, `run <span class="codeinline">npm install</span>`) {
		t.Fatalf("expected label span, got %s", html)
	}
}

func TestAsHTML_RendersImagesAndEmbeds(t *testing.T) {
	html := string(AsHTML(mustParse(t, `[
		{"type": "image", "url": "https://images.prismic.io/a.png", "alt": "Rocket", "dimensions": {"width": 800, "height": 400},
			"linkTo": {"link_type": "Web", "url": "https://example.com"}},
		{"type": "embed", "oembed": {"type": "video", "embed_url": "https://youtu.be/x", "provider_name": "YouTube", "html": "<iframe src=\"https://youtube.com/embed/x\"></iframe>"}}
	]`), Options{}))

	if !strings.Contains(html, `<p class="block-img"><a href="https://example.com" rel="noopener noreferrer"><img src="https://images.prismic.io/a.png" alt="Rocket" width="800" height="400"`) {
		t.Fatalf("expected linked image block, got %s", html)
	}
	if !strings.Contains(html, `<div data-oembed="https://youtu.be/x" data-oembed-type="video" data-oembed-provider="YouTube"><iframe src="https://youtube.com/embed/x"></iframe></div>`) {
		t.Fatalf("expected embed block, got %s", html)
	}
}

func TestAsHTML_HighlightsPreformattedBlocks(t *testing.T) {
	html := string(AsHTML(mustParse(t, `[
		{"type": "preformatted", "text": "package main\n\nfunc main() {}", "spans": []}
	]`), Options{}))

	if !strings.Contains(html, `class="chroma"`) {
		t.Fatalf("expected chroma class for preformatted block, got %s", html)
	}
	if !strings.Contains(html, "main") {
		t.Fatalf("expected code content in rendered block, got %s", html)
	}
}

func TestAsHTML_EmptyInput(t *testing.T) {
	if html := AsHTML(mustParse(t, `null`), Options{}); html != "" {
		t.Fatalf("expected empty html for null field, got %q", html)
	}
	if html := AsHTML(mustParse(t, `[]`), Options{}); html != "" {
		t.Fatalf("expected empty html for empty field, got %q", html)
	}
}

func TestParse_RejectsInvalidJSON(t *testing.T) {
	if _, err := Parse([]byte(`{"type": "paragraph"}`)); err == nil {
		t.Fatal("expected error for object input")
	}
}

func TestAsTextAndExcerpt(t *testing.T) {
	blocks := mustParse(t, `[
		{"type": "heading2", "text": "Título", "spans": []},
		{"type": "image", "url": "https://images.prismic.io/a.png"},
		{"type": "paragraph", "text": "Lorem   ipsum dolor sit amet, consectetur adipiscing elit.", "spans": []}
	]`)

	if got := AsText(blocks, " "); got != "Título Lorem   ipsum dolor sit amet, consectetur adipiscing elit." {
		t.Fatalf("unexpected text: %q", got)
	}
	if got := Excerpt(blocks, 200); got != "Título Lorem ipsum dolor sit amet, consectetur adipiscing elit." {
		t.Fatalf("unexpected full excerpt: %q", got)
	}
	if got := Excerpt(blocks, 22); got != "Título Lorem ipsum..." {
		t.Fatalf("unexpected truncated excerpt: %q", got)
	}
	if got := Excerpt(blocks, 0); got != "" {
		t.Fatalf("expected empty excerpt, got %q", got)
	}
}

func TestChromaCSS(t *testing.T) {
	css := string(ChromaCSS())
	if !strings.Contains(css, "prefers-color-scheme: light") || !strings.Contains(css, "prefers-color-scheme: dark") {
		t.Fatalf("expected light and dark blocks, got %s", css)
	}
	if !strings.Contains(css, ".chroma") {
		t.Fatalf("expected chroma selectors, got %s", css)
	}
}
