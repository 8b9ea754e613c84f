package web

import (
	"fmt"

	"github.com/Khan/genqlient/graphql"
	"go.uber.org/zap"
	"spacetraveling/framework"
	"spacetraveling/framework/httpserver"
	"spacetraveling/framework/pagecache"
	"spacetraveling/internal/config"
	"spacetraveling/internal/i18n"
	"spacetraveling/internal/posts"
	"spacetraveling/internal/web/appcore"
)

// NewAppContext wires the posts service and the translator for cfg.
func NewAppContext(cfg config.Config, client graphql.Client) (*appcore.Context, error) {
	translator, err := i18n.New(cfg.Locale, cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("create translator: %w", err)
	}

	fallback, err := framework.ParseFallbackMode(cfg.Fallback)
	if err != nil {
		return nil, err
	}

	service := posts.NewService(client, cfg.PageSize, cfg.PrismicLang)
	return appcore.NewContext(service, translator, appcore.Options{
		SiteName: cfg.SiteName,
		RootURL:  cfg.RootURL,
		Fallback: fallback,
	}), nil
}

// NewServer serves the post pages. onInvalidate runs after every revalidation.
func NewServer(
	cfg config.Config,
	appCtx *appcore.Context,
	pages pagecache.Store,
	logger *zap.Logger,
	onInvalidate func(),
) (*httpserver.Server[*appcore.Context], error) {
	return httpserver.New(httpserver.Config[*appcore.Context]{
		AppContext:      appCtx,
		Handlers:        Handlers(appCtx),
		Pages:           pages,
		Logger:          logger,
		Static:          httpserver.StaticMount{Dir: cfg.StaticDir},
		IsNotFoundError: appcore.IsNotFoundError,
		NotFoundPage:    NotFoundPage(appCtx),
		Revalidate:      httpserver.Revalidate{Secret: cfg.RevalidateSecret},
		OnInvalidate:    onInvalidate,
	})
}
