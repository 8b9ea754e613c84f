package framework

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"spacetraveling/framework/router"
)

const (
	// PageCacheHeader reports how a page response was produced.
	PageCacheHeader   = "X-Page-Cache"
	PageCacheHit      = "HIT"
	PageCacheMiss     = "MISS"
	PageCacheFallback = "FALLBACK"

	LiveSuffix = "/live"
)

type EmptyParams struct{}

type SlugParams struct {
	Slug string
}

// FallbackMode decides what happens to paths that were not enumerated.
type FallbackMode string

const (
	// FallbackFalse answers unlisted paths with 404.
	FallbackFalse FallbackMode = "false"
	// FallbackTrue serves a loading placeholder and patches the page in once loaded.
	FallbackTrue FallbackMode = "true"
	// FallbackBlocking renders unlisted paths during the request.
	FallbackBlocking FallbackMode = "blocking"
)

func ParseFallbackMode(raw string) (FallbackMode, error) {
	switch FallbackMode(strings.ToLower(strings.TrimSpace(raw))) {
	case FallbackFalse:
		return FallbackFalse, nil
	case FallbackTrue:
		return FallbackTrue, nil
	case FallbackBlocking:
		return FallbackBlocking, nil
	default:
		return "", fmt.Errorf("unknown fallback mode %q", raw)
	}
}

type StaticPaths[P interface{}] struct {
	Params   []P
	Fallback FallbackMode
}

type ParamsParser[P interface{}] func(path string) (P, bool)

type PathFormatter[P interface{}] func(params P) string

type PathsLoader[C interface{}, P interface{}] func(ctx context.Context, appCtx C) (StaticPaths[P], error)

// PageLoader loads the view model of one page. r is nil during static generation.
type PageLoader[C interface{}, P interface{}, VM interface{}] func(
	ctx context.Context,
	appCtx C,
	r *http.Request,
	params P,
) (VM, error)

type PageRenderer[VM interface{}] func(view VM) templ.Component

type LoadingRenderer[P interface{}] func(params P, livePath string) templ.Component

type LayoutRenderer[VM interface{}] func(view VM, child templ.Component) templ.Component

type PageModule[C interface{}, P interface{}, VM interface{}] struct {
	Pattern     string
	ParseParams ParamsParser[P]
	FormatPath  PathFormatter[P]
	Paths       PathsLoader[C, P]
	Load        PageLoader[C, P, VM]
	Render      PageRenderer[VM]
	Layouts     []LayoutRenderer[VM]

	// Loading renders the fallback placeholder. The element with LiveSelectorID
	// is replaced by the rendered page once the live request completes.
	Loading        LoadingRenderer[P]
	LiveSelectorID string
}

// RouteState is the enumeration result of one route pattern.
type RouteState struct {
	Listed   map[string]struct{}
	Fallback FallbackMode
}

func (s RouteState) IsListed(path string) bool {
	_, ok := s.Listed[path]
	return ok
}

type RuntimeContext[C interface{}] interface {
	AppContext() C
	RenderPage(r *http.Request, w http.ResponseWriter, component templ.Component) error
	RenderFallback(r *http.Request, w http.ResponseWriter, component templ.Component) error
	PatchLive(w http.ResponseWriter, r *http.Request, selectorID string, component templ.Component) error
	CachedPage(ctx context.Context, path string) ([]byte, bool)
	StorePage(ctx context.Context, path string, body []byte)
	RouteState(ctx context.Context, pattern string, enumerate func(ctx context.Context) (RouteState, error)) (RouteState, error)
	// Dedupe runs fn once for all concurrent callers of key. fn gets a context
	// that outlives the caller that started it.
	Dedupe(ctx context.Context, key string, fn func(ctx context.Context) (interface{}, error)) (interface{}, error)
	IsNotFound(err error) bool
	RespondNotFound(w http.ResponseWriter, r *http.Request, notFoundContext NotFoundContext)
	RespondServerError(w http.ResponseWriter, err error)
}

type NotFoundSource string

const (
	NotFoundSourcePageLoad       NotFoundSource = "page_load"
	NotFoundSourceLiveLoad       NotFoundSource = "live_load"
	NotFoundSourceUnlistedPath   NotFoundSource = "unlisted_path"
	NotFoundSourceUnmatchedRoute NotFoundSource = "unmatched_route"
)

type NotFoundContext struct {
	RequestPath         string
	MatchedRoutePattern string
	Source              NotFoundSource
	LiveSelectorID      string
}

type RouteHandler[C interface{}] interface {
	Pattern() string
	TryServeLive(runtime RuntimeContext[C], w http.ResponseWriter, r *http.Request) bool
	TryServePage(runtime RuntimeContext[C], w http.ResponseWriter, r *http.Request) bool
	StaticPaths(ctx context.Context, appCtx C) ([]string, FallbackMode, error)
	RenderPath(ctx context.Context, runtime RuntimeContext[C], path string) ([]byte, error)
}

type PageRouteHandler[C interface{}, P interface{}, VM interface{}] struct {
	Page PageModule[C, P, VM]
}

func (h PageRouteHandler[C, P, VM]) Pattern() string {
	return h.Page.Pattern
}

func (h PageRouteHandler[C, P, VM]) TryServePage(
	runtime RuntimeContext[C],
	w http.ResponseWriter,
	r *http.Request,
) bool {
	return servePageModule(runtime, w, r, h.Page)
}

func (h PageRouteHandler[C, P, VM]) TryServeLive(
	runtime RuntimeContext[C],
	w http.ResponseWriter,
	r *http.Request,
) bool {
	return serveLiveModule(runtime, w, r, h.Page)
}

func (h PageRouteHandler[C, P, VM]) StaticPaths(ctx context.Context, appCtx C) ([]string, FallbackMode, error) {
	state, err := enumerate(ctx, appCtx, h.Page)
	if err != nil {
		return nil, "", err
	}

	paths := make([]string, 0, len(state.Listed))
	for path := range state.Listed {
		paths = append(paths, path)
	}
	return paths, state.Fallback, nil
}

func (h PageRouteHandler[C, P, VM]) RenderPath(
	ctx context.Context,
	runtime RuntimeContext[C],
	path string,
) ([]byte, error) {
	params, ok := h.Page.ParseParams(path)
	if !ok {
		return nil, fmt.Errorf("route %q does not match path %q", h.Page.Pattern, path)
	}

	page, err := renderModule(ctx, runtime.AppContext(), nil, h.Page, params)
	if err != nil {
		return nil, err
	}
	return page.body, nil
}

// SlugPage builds the params parser and formatter of a single-slug pattern such as "/post/[slug]".
// Paths whose slug is not URL safe do not match.
func SlugPage(pattern string) (ParamsParser[SlugParams], PathFormatter[SlugParams]) {
	compiled := router.MustCompile(pattern)

	parse := func(path string) (SlugParams, bool) {
		params, ok := compiled.Match(path)
		if !ok || !router.IsValidSlug(params["slug"]) {
			return SlugParams{}, false
		}
		return SlugParams{Slug: params["slug"]}, true
	}
	format := func(params SlugParams) string {
		path, err := compiled.Format(map[string]string{"slug": params.Slug})
		if err != nil {
			return ""
		}
		return path
	}

	return parse, format
}

func LivePath(pagePath string) string {
	return strings.TrimRight(pagePath, "/") + LiveSuffix
}

func applyLayouts[VM interface{}](
	layouts []LayoutRenderer[VM],
	view VM,
	child templ.Component,
) templ.Component {
	wrapped := child
	for idx := len(layouts) - 1; idx >= 0; idx-- {
		wrapped = layouts[idx](view, wrapped)
	}
	return wrapped
}

type renderedPage[VM interface{}] struct {
	view VM
	body []byte
}

func renderModule[C interface{}, P interface{}, VM interface{}](
	ctx context.Context,
	appCtx C,
	r *http.Request,
	module PageModule[C, P, VM],
	params P,
) (renderedPage[VM], error) {
	view, err := module.Load(ctx, appCtx, r, params)
	if err != nil {
		return renderedPage[VM]{}, err
	}

	var buffer bytes.Buffer
	component := applyLayouts(module.Layouts, view, module.Render(view))
	if err := component.Render(ctx, &buffer); err != nil {
		return renderedPage[VM]{}, fmt.Errorf("render route %q: %w", module.Pattern, err)
	}

	return renderedPage[VM]{view: view, body: buffer.Bytes()}, nil
}

func enumerate[C interface{}, P interface{}, VM interface{}](
	ctx context.Context,
	appCtx C,
	module PageModule[C, P, VM],
) (RouteState, error) {
	state := RouteState{Listed: map[string]struct{}{}, Fallback: FallbackBlocking}
	if module.Paths == nil {
		return state, nil
	}

	paths, err := module.Paths(ctx, appCtx)
	if err != nil {
		return RouteState{}, fmt.Errorf("enumerate route %q: %w", module.Pattern, err)
	}
	if paths.Fallback != "" {
		state.Fallback = paths.Fallback
	}
	for _, params := range paths.Params {
		path := module.FormatPath(params)
		if path == "" {
			continue
		}
		state.Listed[path] = struct{}{}
	}

	return state, nil
}

func servePageModule[C interface{}, P interface{}, VM interface{}](
	runtime RuntimeContext[C],
	w http.ResponseWriter,
	r *http.Request,
	module PageModule[C, P, VM],
) bool {
	params, ok := module.ParseParams(r.URL.Path)
	if !ok {
		return false
	}

	ctx := r.Context()
	pagePath := module.FormatPath(params)
	if body, ok := runtime.CachedPage(ctx, pagePath); ok {
		w.Header().Set(PageCacheHeader, PageCacheHit)
		if err := runtime.RenderPage(r, w, templ.Raw(string(body))); err != nil {
			runtime.RespondServerError(w, fmt.Errorf("write cached route %q: %w", module.Pattern, err))
		}
		return true
	}

	state, err := runtime.RouteState(ctx, module.Pattern, func(ctx context.Context) (RouteState, error) {
		return enumerate(ctx, runtime.AppContext(), module)
	})
	if err != nil {
		runtime.RespondServerError(w, err)
		return true
	}

	if !state.IsListed(pagePath) {
		switch state.Fallback {
		case FallbackFalse:
			runtime.RespondNotFound(w, r, NotFoundContext{
				RequestPath:         r.URL.Path,
				MatchedRoutePattern: module.Pattern,
				Source:              NotFoundSourceUnlistedPath,
			})
			return true
		case FallbackTrue:
			if module.Loading != nil && module.LiveSelectorID != "" {
				var empty VM
				component := applyLayouts(module.Layouts, empty, module.Loading(params, LivePath(pagePath)))
				w.Header().Set(PageCacheHeader, PageCacheFallback)
				if err := runtime.RenderFallback(r, w, component); err != nil {
					runtime.RespondServerError(w, fmt.Errorf("render fallback %q: %w", module.Pattern, err))
				}
				return true
			}
		}
	}

	page, err := renderShared(runtime, r, module, params, pagePath)
	if err != nil {
		handleLoadError(runtime, w, r, err, module.Pattern, NotFoundSourcePageLoad, "")
		return true
	}

	w.Header().Set(PageCacheHeader, PageCacheMiss)
	if err := runtime.RenderPage(r, w, templ.Raw(string(page.body))); err != nil {
		runtime.RespondServerError(w, fmt.Errorf("write route %q: %w", module.Pattern, err))
	}
	return true
}

func serveLiveModule[C interface{}, P interface{}, VM interface{}](
	runtime RuntimeContext[C],
	w http.ResponseWriter,
	r *http.Request,
	module PageModule[C, P, VM],
) bool {
	if module.LiveSelectorID == "" {
		return false
	}

	trimmed := strings.TrimRight(r.URL.Path, "/")
	pagePath, ok := strings.CutSuffix(trimmed, LiveSuffix)
	if !ok {
		return false
	}

	params, ok := module.ParseParams(pagePath)
	if !ok {
		return false
	}

	pagePath = module.FormatPath(params)
	state, err := runtime.RouteState(r.Context(), module.Pattern, func(ctx context.Context) (RouteState, error) {
		return enumerate(ctx, runtime.AppContext(), module)
	})
	if err != nil {
		runtime.RespondServerError(w, err)
		return true
	}

	// Only fallback pages are loaded live.
	if !state.IsListed(pagePath) && state.Fallback != FallbackTrue {
		runtime.RespondNotFound(w, r, NotFoundContext{
			RequestPath:         r.URL.Path,
			MatchedRoutePattern: module.Pattern,
			Source:              NotFoundSourceUnlistedPath,
		})
		return true
	}

	page, err := renderShared(runtime, r, module, params, pagePath)
	if err != nil {
		handleLoadError(runtime, w, r, err, module.Pattern, NotFoundSourceLiveLoad, module.LiveSelectorID)
		return true
	}

	if err := runtime.PatchLive(w, r, module.LiveSelectorID, module.Render(page.view)); err != nil {
		runtime.RespondServerError(w, fmt.Errorf("patch live route %q: %w", module.Pattern, err))
	}
	return true
}

// renderShared renders pagePath once for all concurrent requests and stores the result.
func renderShared[C interface{}, P interface{}, VM interface{}](
	runtime RuntimeContext[C],
	r *http.Request,
	module PageModule[C, P, VM],
	params P,
	pagePath string,
) (renderedPage[VM], error) {
	result, err := runtime.Dedupe(r.Context(), pagePath, func(ctx context.Context) (interface{}, error) {
		page, err := renderModule(ctx, runtime.AppContext(), r, module, params)
		if err != nil {
			return nil, err
		}
		runtime.StorePage(ctx, pagePath, page.body)
		return page, nil
	})
	if err != nil {
		return renderedPage[VM]{}, err
	}

	return result.(renderedPage[VM]), nil
}

func handleLoadError[C interface{}](
	runtime RuntimeContext[C],
	w http.ResponseWriter,
	r *http.Request,
	err error,
	routePattern string,
	source NotFoundSource,
	liveSelectorID string,
) {
	if runtime.IsNotFound(err) {
		runtime.RespondNotFound(w, r, NotFoundContext{
			RequestPath:         r.URL.Path,
			MatchedRoutePattern: routePattern,
			Source:              source,
			LiveSelectorID:      liveSelectorID,
		})
		return
	}

	runtime.RespondServerError(w, fmt.Errorf("load route %q: %w", routePattern, err))
}
