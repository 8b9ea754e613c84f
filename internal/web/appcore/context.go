package appcore

import (
	"errors"
	"strings"

	"spacetraveling/framework"
	"spacetraveling/internal/i18n"
	"spacetraveling/internal/posts"
	"spacetraveling/internal/richtext"
)

var errPostsServiceUnavailable = errors.New("posts service unavailable")

const defaultSiteName = "spacetraveling"

type Options struct {
	SiteName string
	RootURL  string
	Fallback framework.FallbackMode
}

type Context struct {
	service    *posts.Service
	translator *i18n.Translator
	siteName   string
	rootURL    string
	fallback   framework.FallbackMode
}

func NewContext(service *posts.Service, translator *i18n.Translator, opts Options) *Context {
	siteName := strings.TrimSpace(opts.SiteName)
	if siteName == "" {
		siteName = defaultSiteName
	}

	fallback := opts.Fallback
	if fallback == "" {
		fallback = framework.FallbackTrue
	}

	return &Context{
		service:    service,
		translator: translator,
		siteName:   siteName,
		rootURL:    strings.TrimRight(strings.TrimSpace(opts.RootURL), "/"),
		fallback:   fallback,
	}
}

func (c *Context) richTextOptions() richtext.Options {
	return richtext.Options{RootURL: c.rootURL}
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, posts.ErrNotFound)
}
