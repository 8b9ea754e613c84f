package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/a-h/templ"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"spacetraveling/framework"
	"spacetraveling/framework/pagecache"
)

const defaultGenerateConcurrency = 4

type Config[C interface{}] struct {
	AppContext C
	Handlers   []framework.RouteHandler[C]
	Pages      pagecache.Store

	RenderPage     func(r *http.Request, w http.ResponseWriter, component templ.Component) error
	RenderFallback func(r *http.Request, w http.ResponseWriter, component templ.Component) error
	PatchLive      func(w http.ResponseWriter, r *http.Request, selectorID string, component templ.Component) error

	IsNotFoundError   func(err error) bool
	HandleNotFound    func(w http.ResponseWriter, r *http.Request, notFoundContext framework.NotFoundContext)
	HandleServerError func(w http.ResponseWriter, err error)
	HandleCacheError  func(err error)
}

type Engine[C interface{}] struct {
	appContext C
	handlers   []framework.RouteHandler[C]
	pages      pagecache.Store

	renderPage     func(r *http.Request, w http.ResponseWriter, component templ.Component) error
	renderFallback func(r *http.Request, w http.ResponseWriter, component templ.Component) error
	patchLive      func(w http.ResponseWriter, r *http.Request, selectorID string, component templ.Component) error

	isNotFound  func(err error) bool
	notFound    func(w http.ResponseWriter, r *http.Request, notFoundContext framework.NotFoundContext)
	serverError func(w http.ResponseWriter, err error)
	cacheError  func(err error)

	flight singleflight.Group

	statesMu sync.RWMutex
	states   map[string]framework.RouteState
}

func New[C interface{}](cfg Config[C]) (*Engine[C], error) {
	if cfg.RenderPage == nil {
		return nil, errors.New("render page callback is required")
	}
	if cfg.PatchLive == nil {
		return nil, errors.New("patch live callback is required")
	}

	renderFallback := cfg.RenderFallback
	if renderFallback == nil {
		renderFallback = cfg.RenderPage
	}

	isNotFound := cfg.IsNotFoundError
	if isNotFound == nil {
		isNotFound = func(error) bool { return false }
	}

	notFound := cfg.HandleNotFound
	if notFound == nil {
		notFound = func(w http.ResponseWriter, r *http.Request, _ framework.NotFoundContext) {
			http.NotFound(w, r)
		}
	}

	serverError := cfg.HandleServerError
	if serverError == nil {
		serverError = func(w http.ResponseWriter, _ error) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}

	cacheError := cfg.HandleCacheError
	if cacheError == nil {
		cacheError = func(error) {}
	}

	return &Engine[C]{
		appContext:     cfg.AppContext,
		handlers:       cfg.Handlers,
		pages:          cfg.Pages,
		renderPage:     cfg.RenderPage,
		renderFallback: renderFallback,
		patchLive:      cfg.PatchLive,
		isNotFound:     isNotFound,
		notFound:       notFound,
		serverError:    serverError,
		cacheError:     cacheError,
		states:         make(map[string]framework.RouteState),
	}, nil
}

func (engine *Engine[C]) ServeRoute(w http.ResponseWriter, r *http.Request) bool {
	for _, handler := range engine.handlers {
		if handler.TryServeLive(engine, w, r) {
			return true
		}
	}

	for _, handler := range engine.handlers {
		if handler.TryServePage(engine, w, r) {
			return true
		}
	}

	return false
}

func (engine *Engine[C]) AppContext() C {
	return engine.appContext
}

func (engine *Engine[C]) RenderPage(
	r *http.Request,
	w http.ResponseWriter,
	component templ.Component,
) error {
	return engine.renderPage(r, w, component)
}

func (engine *Engine[C]) RenderFallback(
	r *http.Request,
	w http.ResponseWriter,
	component templ.Component,
) error {
	return engine.renderFallback(r, w, component)
}

func (engine *Engine[C]) PatchLive(
	w http.ResponseWriter,
	r *http.Request,
	selectorID string,
	component templ.Component,
) error {
	return engine.patchLive(w, r, selectorID, component)
}

func (engine *Engine[C]) CachedPage(ctx context.Context, path string) ([]byte, bool) {
	if engine.pages == nil {
		return nil, false
	}

	body, ok, err := engine.pages.Get(ctx, path)
	if err != nil {
		engine.cacheError(err)
		return nil, false
	}
	return body, ok
}

func (engine *Engine[C]) StorePage(ctx context.Context, path string, body []byte) {
	if engine.pages == nil {
		return
	}

	if err := engine.pages.Set(ctx, path, body); err != nil {
		engine.cacheError(err)
	}
}

// RouteState returns the enumerated paths of pattern, enumerating them on first use.
func (engine *Engine[C]) RouteState(
	ctx context.Context,
	pattern string,
	enumerate func(ctx context.Context) (framework.RouteState, error),
) (framework.RouteState, error) {
	engine.statesMu.RLock()
	state, ok := engine.states[pattern]
	engine.statesMu.RUnlock()
	if ok {
		return state, nil
	}

	result, err := engine.shared(ctx, "routes:"+pattern, func(ctx context.Context) (interface{}, error) {
		state, err := enumerate(ctx)
		if err != nil {
			return nil, err
		}
		engine.setRouteState(pattern, state)
		return state, nil
	})
	if err != nil {
		return framework.RouteState{}, err
	}

	return result.(framework.RouteState), nil
}

// ResetRouteStates forgets every enumeration so the next request enumerates again.
func (engine *Engine[C]) ResetRouteStates() {
	engine.statesMu.Lock()
	engine.states = make(map[string]framework.RouteState)
	engine.statesMu.Unlock()
}

func (engine *Engine[C]) setRouteState(pattern string, state framework.RouteState) {
	engine.statesMu.Lock()
	engine.states[pattern] = state
	engine.statesMu.Unlock()
}

func (engine *Engine[C]) Dedupe(
	ctx context.Context,
	key string,
	fn func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	return engine.shared(ctx, "page:"+key, fn)
}

// shared joins the flight of key. The flight ignores caller cancellation; a
// caller whose own context ends stops waiting and gets ctx.Err().
func (engine *Engine[C]) shared(
	ctx context.Context,
	key string,
	fn func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	detached := context.WithoutCancel(ctx)
	results := engine.flight.DoChan(key, func() (interface{}, error) {
		return fn(detached)
	})

	select {
	case result := <-results:
		return result.Val, result.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (engine *Engine[C]) IsNotFound(err error) bool {
	return engine.isNotFound(err)
}

func (engine *Engine[C]) RespondNotFound(
	w http.ResponseWriter,
	r *http.Request,
	notFoundContext framework.NotFoundContext,
) {
	engine.notFound(w, r, notFoundContext)
}

func (engine *Engine[C]) RespondServerError(w http.ResponseWriter, err error) {
	engine.serverError(w, err)
}

type GenerateOptions struct {
	Concurrency int
	// Emit receives every rendered page. It may be called concurrently.
	Emit func(path string, body []byte) error
}

type GenerateReport struct {
	Paths []string
}

// Generate enumerates every route and renders all listed paths into the page store.
func (engine *Engine[C]) Generate(ctx context.Context, opts GenerateOptions) (GenerateReport, error) {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = defaultGenerateConcurrency
	}

	var report GenerateReport
	for _, handler := range engine.handlers {
		paths, fallback, err := handler.StaticPaths(ctx, engine.appContext)
		if err != nil {
			return report, err
		}
		sort.Strings(paths)

		state := framework.RouteState{Listed: make(map[string]struct{}, len(paths)), Fallback: fallback}
		for _, path := range paths {
			state.Listed[path] = struct{}{}
		}

		group, groupCtx := errgroup.WithContext(ctx)
		group.SetLimit(concurrency)
		for _, path := range paths {
			group.Go(func() error {
				body, err := handler.RenderPath(groupCtx, engine, path)
				if err != nil {
					return fmt.Errorf("generate %q: %w", path, err)
				}
				engine.StorePage(groupCtx, path, body)
				if opts.Emit != nil {
					return opts.Emit(path, body)
				}
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			return report, err
		}

		engine.setRouteState(handler.Pattern(), state)
		report.Paths = append(report.Paths, paths...)
	}

	return report, nil
}
