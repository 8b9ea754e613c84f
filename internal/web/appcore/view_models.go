package appcore

import (
	"html/template"
	"strings"

	"spacetraveling/internal/posts"
	"spacetraveling/internal/richtext"
)

const (
	readingTimeMinutes  = 4
	descriptionMaxChars = 160
)

// PageMeta is implemented by every view rendered inside the root layout.
type PageMeta interface {
	LayoutPageTitle() string
	LayoutDescription() string
}

type LayoutView struct {
	Title       string
	Description string
	Lang        string
	SiteName    string
}

type SectionView struct {
	Heading string
	Body    template.HTML
}

type BannerView struct {
	URL    string
	Alt    string
	Width  int
	Height int
}

type PostPageView struct {
	UID            string
	PageTitle      string
	Description    string
	Banner         BannerView
	Author         string
	AuthorLabel    string
	PublishedAt    string
	PublishedLabel string
	PublishedAtISO string
	ReadingTime    string
	Sections       []SectionView
}

func (v PostPageView) LayoutPageTitle() string {
	return v.PageTitle
}

func (v PostPageView) LayoutDescription() string {
	return v.Description
}

type NotFoundView struct {
	Title   string
	Message string
	Back    string
}

func (v NotFoundView) LayoutPageTitle() string {
	return v.Title
}

func (v NotFoundView) LayoutDescription() string {
	return ""
}

// NewPostPageView prepares a post for rendering. The banner alt text is the
// post title and the reading time label is fixed.
func NewPostPageView(appCtx *Context, post posts.Post) PostPageView {
	tr := appCtx.translator
	opts := appCtx.richTextOptions()

	sections := make([]SectionView, 0, len(post.Data.Content))
	for _, section := range post.Data.Content {
		sections = append(sections, SectionView{
			Heading: section.Heading,
			Body:    richtext.AsHTML(section.Body, opts),
		})
	}

	return PostPageView{
		UID:         post.UID,
		PageTitle:   post.Data.Title,
		Description: postDescription(post),
		Banner: BannerView{
			URL:    post.Data.Banner.URL,
			Alt:    post.Data.Title,
			Width:  post.Data.Banner.Width,
			Height: post.Data.Banner.Height,
		},
		Author:         post.Data.Author,
		AuthorLabel:    tr.AuthorLabel(),
		PublishedAt:    tr.FormatDate(post.FirstPublicationDate),
		PublishedLabel: tr.PublishedLabel(),
		PublishedAtISO: tr.DateTimeAttr(post.FirstPublicationDate),
		ReadingTime:    tr.ReadingTime(readingTimeMinutes),
		Sections:       sections,
	}
}

func NewNotFoundView(appCtx *Context, path string) NotFoundView {
	tr := appCtx.translator
	return NotFoundView{
		Title:   tr.NotFoundTitle(),
		Message: tr.NotFoundMessage(path),
		Back:    tr.NotFoundBack(),
	}
}

// NewLayoutView builds the document head. Views without a title, such as the
// loading placeholder, get the bare site name.
func NewLayoutView(appCtx *Context, meta PageMeta) LayoutView {
	title := appCtx.siteName
	description := ""
	if meta != nil {
		if pageTitle := strings.TrimSpace(meta.LayoutPageTitle()); pageTitle != "" {
			title = pageTitle + " | " + appCtx.siteName
		}
		description = meta.LayoutDescription()
	}

	return LayoutView{
		Title:       title,
		Description: description,
		Lang:        appCtx.translator.Lang(),
		SiteName:    appCtx.siteName,
	}
}

func (c *Context) LoadingLabel() string {
	return c.translator.Loading()
}

func postDescription(post posts.Post) string {
	if subtitle := strings.TrimSpace(post.Data.Subtitle); subtitle != "" {
		return subtitle
	}

	body := make(richtext.RichText, 0)
	for _, section := range post.Data.Content {
		body = append(body, section.Body...)
	}
	return richtext.Excerpt(body, descriptionMaxChars)
}
