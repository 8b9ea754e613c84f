package appcore

import (
	"context"
	"net/http"

	"spacetraveling/framework"
	"spacetraveling/internal/posts"
)

// PostStaticPaths lists every post uid. Slugs missing from the list follow the
// configured fallback mode.
func PostStaticPaths(ctx context.Context, appCtx *Context) (framework.StaticPaths[framework.SlugParams], error) {
	service, err := postsService(appCtx)
	if err != nil {
		return framework.StaticPaths[framework.SlugParams]{}, err
	}

	uids, err := service.ListPostUIDs(ctx)
	if err != nil {
		return framework.StaticPaths[framework.SlugParams]{}, err
	}

	params := make([]framework.SlugParams, 0, len(uids))
	for _, uid := range uids {
		params = append(params, framework.SlugParams{Slug: uid})
	}

	return framework.StaticPaths[framework.SlugParams]{
		Params:   params,
		Fallback: appCtx.fallback,
	}, nil
}

func LoadPostPage(
	ctx context.Context,
	appCtx *Context,
	_ *http.Request,
	params framework.SlugParams,
) (PostPageView, error) {
	service, err := postsService(appCtx)
	if err != nil {
		return PostPageView{}, err
	}

	post, err := service.GetPostByUID(ctx, params.Slug)
	if err != nil {
		return PostPageView{}, err
	}

	return NewPostPageView(appCtx, *post), nil
}

func postsService(appCtx *Context) (*posts.Service, error) {
	if appCtx == nil || appCtx.service == nil {
		return nil, errPostsServiceUnavailable
	}
	return appCtx.service, nil
}
