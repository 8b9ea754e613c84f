package web

import (
	"strings"

	"github.com/a-h/templ"
	"spacetraveling/framework"
	"spacetraveling/internal/web/appcore"
	"spacetraveling/internal/web/components"
)

const PostPattern = "/post/[slug]"

// Handlers lists the page routes of the site.
func Handlers(appCtx *appcore.Context) []framework.RouteHandler[*appcore.Context] {
	return []framework.RouteHandler[*appcore.Context]{
		framework.PageRouteHandler[*appcore.Context, framework.SlugParams, appcore.PostPageView]{
			Page: PostPage(appCtx),
		},
	}
}

func PostPage(appCtx *appcore.Context) framework.PageModule[*appcore.Context, framework.SlugParams, appcore.PostPageView] {
	parse, format := framework.SlugPage(PostPattern)

	return framework.PageModule[*appcore.Context, framework.SlugParams, appcore.PostPageView]{
		Pattern:     PostPattern,
		ParseParams: parse,
		FormatPath:  format,
		Paths:       appcore.PostStaticPaths,
		Load:        appcore.LoadPostPage,
		Render:      components.PostPage,
		Layouts: []framework.LayoutRenderer[appcore.PostPageView]{
			func(view appcore.PostPageView, child templ.Component) templ.Component {
				return components.Layout(appcore.NewLayoutView(appCtx, view), child)
			},
		},
		Loading: func(_ framework.SlugParams, livePath string) templ.Component {
			return components.Loading(appCtx.LoadingLabel(), livePath)
		},
		LiveSelectorID: components.PostSelectorID,
	}
}

// NotFoundPage renders a full document, or only the fragment when it replaces
// a live container.
func NotFoundPage(appCtx *appcore.Context) func(notFoundContext framework.NotFoundContext) templ.Component {
	return func(notFoundContext framework.NotFoundContext) templ.Component {
		if notFoundContext.Source == framework.NotFoundSourceLiveLoad && notFoundContext.LiveSelectorID != "" {
			pagePath := strings.TrimSuffix(notFoundContext.RequestPath, framework.LiveSuffix)
			return components.NotFound(appcore.NewNotFoundView(appCtx, pagePath), notFoundContext.LiveSelectorID)
		}

		view := appcore.NewNotFoundView(appCtx, notFoundContext.RequestPath)
		return components.Layout(appcore.NewLayoutView(appCtx, view), components.NotFound(view, ""))
	}
}
