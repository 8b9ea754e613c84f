package appcore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"spacetraveling/framework"
	"spacetraveling/internal/i18n"
	"spacetraveling/internal/posts"
	"spacetraveling/internal/richtext"
)

func newTestContext(t *testing.T, opts Options) *Context {
	t.Helper()

	translator, err := i18n.New("pt-BR", "UTC")
	require.NoError(t, err)
	return NewContext(nil, translator, opts)
}

func TestNewPostPageView(t *testing.T) {
	appCtx := newTestContext(t, Options{RootURL: "https://spacetraveling.dev/"})
	date := "2021-03-25T19:25:00+0000"

	view := NewPostPageView(appCtx, posts.Post{
		UID:                  "como-utilizar-hooks",
		FirstPublicationDate: &date,
		Data: posts.PostData{
			Title:  "Como utilizar Hooks",
			Author: "Joseph Oliveira",
			Banner: posts.Banner{URL: "https://images.prismic.io/a.png", Alt: "Foguete", Width: 800},
			Content: []posts.ContentSection{
				{Heading: "Primeira", Body: richtext.RichText{{Type: richtext.BlockParagraph, Text: "Lorem ipsum dolor sit amet."}}},
				{Heading: "Segunda", Body: richtext.RichText{{
					Type:  richtext.BlockParagraph,
					Text:  "veja aqui",
					Spans: []richtext.Span{{Start: 5, End: 9, Type: richtext.SpanHyperlink, Data: &richtext.SpanData{Link: richtext.Link{LinkType: richtext.LinkTypeWeb, URL: "https://spacetraveling.dev/post/outro"}}}},
				}}},
			},
		},
	})

	require.Equal(t, "Como utilizar Hooks", view.PageTitle)
	require.Equal(t, "Como utilizar Hooks", view.Banner.Alt)
	require.Equal(t, 800, view.Banner.Width)
	require.Equal(t, "25 mar 2021", view.PublishedAt)
	require.Equal(t, "4 min", view.ReadingTime)
	require.Equal(t, "Autor", view.AuthorLabel)
	require.Equal(t, "Publicado em", view.PublishedLabel)
	require.Equal(t, "Lorem ipsum dolor sit amet. veja aqui", view.Description)

	require.Len(t, view.Sections, 2)
	require.Equal(t, "Primeira", view.Sections[0].Heading)
	require.Equal(t, "Segunda", view.Sections[1].Heading)
	require.Contains(t, string(view.Sections[1].Body), `<a href="/post/outro">aqui</a>`)
}

func TestNewPostPageViewNullDateAndNoSections(t *testing.T) {
	appCtx := newTestContext(t, Options{})

	view := NewPostPageView(appCtx, posts.Post{UID: "rascunho", Data: posts.PostData{Title: "Rascunho", Subtitle: "Resumo"}})
	require.Empty(t, view.PublishedAt)
	require.Empty(t, view.PublishedAtISO)
	require.Empty(t, view.Sections)
	require.Equal(t, "Resumo", view.Description)
}

func TestNewLayoutView(t *testing.T) {
	appCtx := newTestContext(t, Options{})

	layout := NewLayoutView(appCtx, PostPageView{PageTitle: "Como utilizar Hooks", Description: "Resumo"})
	require.Equal(t, "Como utilizar Hooks | spacetraveling", layout.Title)
	require.Equal(t, "Resumo", layout.Description)
	require.Equal(t, "pt-BR", layout.Lang)

	placeholder := NewLayoutView(appCtx, PostPageView{})
	require.Equal(t, "spacetraveling", placeholder.Title)

	custom := NewLayoutView(newTestContext(t, Options{SiteName: "blog"}), NewNotFoundView(appCtx, "/post/x"))
	require.Equal(t, "Página não encontrada | blog", custom.Title)
}

func TestPostStaticPathsWithoutService(t *testing.T) {
	appCtx := newTestContext(t, Options{Fallback: framework.FallbackBlocking})

	_, err := PostStaticPaths(context.Background(), appCtx)
	require.ErrorIs(t, err, errPostsServiceUnavailable)

	_, err = LoadPostPage(context.Background(), appCtx, nil, framework.SlugParams{Slug: "x"})
	require.ErrorIs(t, err, errPostsServiceUnavailable)
}

func TestIsNotFoundError(t *testing.T) {
	require.True(t, IsNotFoundError(posts.ErrNotFound))
	require.False(t, IsNotFoundError(errPostsServiceUnavailable))
}

func TestLiveLoadAction(t *testing.T) {
	require.Equal(t, `@get("/post/a/live")`, LiveLoadAction("/post/a/live"))
}
