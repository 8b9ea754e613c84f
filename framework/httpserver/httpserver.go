package httpserver

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"
	"go.uber.org/zap"
	"spacetraveling/framework"
	"spacetraveling/framework/engine"
	"spacetraveling/framework/pagecache"
)

const defaultCacheControlPolicy = "public, max-age=3600, s-maxage=3600"
const defaultFallbackPolicy = "no-store"
const defaultHealthPath = "/healthz"
const defaultHealthBody = "ok"
const defaultStaticPrefix = "/static/"
const defaultRevalidatePath = "/api/revalidate"
const revalidateSecretHeader = "X-Revalidate-Secret"

type StaticMount struct {
	URLPrefix string
	Dir       string
}

// CachePolicies sets Cache-Control per response kind. Live patches keep the
// no-cache header of the event stream.
type CachePolicies struct {
	HTML     string
	Fallback string
	Static   string
	Health   string
	Error    string
}

func DefaultCachePolicies() CachePolicies {
	return CachePolicies{
		HTML:     defaultCacheControlPolicy,
		Fallback: defaultFallbackPolicy,
		Static:   defaultCacheControlPolicy,
		Health:   defaultCacheControlPolicy,
		Error:    defaultCacheControlPolicy,
	}
}

type Revalidate struct {
	Path   string
	Secret string
}

type Config[C interface{}] struct {
	AppContext C
	Handlers   []framework.RouteHandler[C]
	Pages      pagecache.Store
	Logger     *zap.Logger

	Static StaticMount

	CachePolicies CachePolicies

	IsNotFoundError func(err error) bool
	NotFoundPage    func(notFoundContext framework.NotFoundContext) templ.Component

	HealthPath string
	HealthBody string

	// Revalidate enables the content webhook when Secret is set.
	Revalidate Revalidate

	// OnInvalidate runs after the page store is purged.
	OnInvalidate func()
}

type Server[C interface{}] struct {
	cachePolicies CachePolicies
	notFoundPage  func(notFoundContext framework.NotFoundContext) templ.Component
	logger        *zap.Logger
	pages         pagecache.Store
	healthPath    string
	healthBody    string
	revalidate    Revalidate
	onInvalidate  func()

	routeEngine *engine.Engine[C]
	handler     http.Handler
}

func New[C interface{}](cfg Config[C]) (*Server[C], error) {
	cachePolicies := withDefaultPolicies(cfg.CachePolicies)
	healthPath := normalizePath(cfg.HealthPath, defaultHealthPath)
	healthBody := strings.TrimSpace(cfg.HealthBody)
	if healthBody == "" {
		healthBody = defaultHealthBody
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	pages := cfg.Pages
	if pages == nil {
		pages = pagecache.NewMemory(0)
	}

	revalidate := cfg.Revalidate
	revalidate.Path = normalizePath(revalidate.Path, defaultRevalidatePath)

	srv := &Server[C]{
		cachePolicies: cachePolicies,
		notFoundPage:  cfg.NotFoundPage,
		logger:        logger,
		pages:         pages,
		healthPath:    healthPath,
		healthBody:    healthBody,
		revalidate:    revalidate,
		onInvalidate:  cfg.OnInvalidate,
	}

	routeEngine, err := engine.New(engine.Config[C]{
		AppContext:        cfg.AppContext,
		Handlers:          cfg.Handlers,
		Pages:             pages,
		RenderPage:        srv.renderPage,
		RenderFallback:    srv.renderFallback,
		PatchLive:         srv.patchLive,
		IsNotFoundError:   cfg.IsNotFoundError,
		HandleNotFound:    srv.handleNotFound,
		HandleServerError: srv.handleServerError,
		HandleCacheError: func(err error) {
			logger.Warn("page cache", zap.Error(err))
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create route engine: %w", err)
	}
	srv.routeEngine = routeEngine

	mux := http.NewServeMux()
	if strings.TrimSpace(cfg.Static.Dir) != "" {
		prefix := normalizeStaticPrefix(cfg.Static.URLPrefix)
		fs := http.FileServer(http.Dir(cfg.Static.Dir))
		mux.Handle(prefix, withCachePolicy(cachePolicies.Static, http.StripPrefix(prefix, fs)))
	}
	if strings.TrimSpace(revalidate.Secret) != "" {
		mux.HandleFunc(revalidate.Path, srv.handleRevalidate)
	}

	mux.HandleFunc("/", srv.handleRoute)
	srv.handler = withRequestID(withRequestLogging(logger, mux))
	return srv, nil
}

func (s *Server[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Generate renders every enumerated page into the page store.
func (s *Server[C]) Generate(ctx context.Context, opts engine.GenerateOptions) (engine.GenerateReport, error) {
	return s.routeEngine.Generate(ctx, opts)
}

// Invalidate drops every stored page and forgets enumerated paths.
func (s *Server[C]) Invalidate(ctx context.Context) error {
	if err := s.pages.Purge(ctx); err != nil {
		return err
	}
	s.routeEngine.ResetRouteStates()
	if s.onInvalidate != nil {
		s.onInvalidate()
	}
	return nil
}

func (s *Server[C]) handleRoute(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == s.healthPath {
		s.handleHealth(w)
		return
	}

	if s.routeEngine.ServeRoute(w, r) {
		return
	}

	s.handleNotFound(w, r, framework.NotFoundContext{
		RequestPath: r.URL.Path,
		Source:      framework.NotFoundSourceUnmatchedRoute,
	})
}

func (s *Server[C]) renderPage(r *http.Request, w http.ResponseWriter, component templ.Component) error {
	return s.renderPageWithStatus(r, w, component, 0, s.cachePolicies.HTML)
}

func (s *Server[C]) renderFallback(r *http.Request, w http.ResponseWriter, component templ.Component) error {
	return s.renderPageWithStatus(r, w, component, 0, s.cachePolicies.Fallback)
}

func (s *Server[C]) renderPageWithStatus(
	r *http.Request,
	w http.ResponseWriter,
	component templ.Component,
	statusCode int,
	cachePolicy string,
) error {
	setCachePolicy(w, cachePolicy)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if statusCode > 0 {
		w.WriteHeader(statusCode)
	}
	return component.Render(r.Context(), w)
}

func (s *Server[C]) patchLive(
	w http.ResponseWriter,
	r *http.Request,
	selectorID string,
	component templ.Component,
) error {
	sse := datastar.NewSSE(w, r)
	return sse.PatchElementTempl(component, datastar.WithSelectorID(selectorID))
}

func (s *Server[C]) handleNotFound(
	w http.ResponseWriter,
	r *http.Request,
	notFoundContext framework.NotFoundContext,
) {
	var component templ.Component
	if s.notFoundPage != nil {
		component = s.notFoundPage(notFoundContext)
	}

	if notFoundContext.Source == framework.NotFoundSourceLiveLoad && notFoundContext.LiveSelectorID != "" && component != nil {
		sse := datastar.NewSSE(w, r)
		if err := sse.PatchElementTempl(component, datastar.WithSelectorID(notFoundContext.LiveSelectorID)); err != nil {
			s.logger.Error("patch not found", zap.String("path", r.URL.Path), zap.Error(err))
		}
		return
	}

	if component == nil {
		setCachePolicy(w, s.cachePolicies.Error)
		http.NotFound(w, r)
		return
	}
	if err := s.renderPageWithStatus(r, w, component, http.StatusNotFound, s.cachePolicies.Error); err != nil {
		s.handleServerError(w, fmt.Errorf("render not found page: %w", err))
	}
}

func (s *Server[C]) handleServerError(w http.ResponseWriter, err error) {
	setCachePolicy(w, s.cachePolicies.Error)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	s.logger.Error("server error", zap.Error(err))
}

func (s *Server[C]) handleHealth(w http.ResponseWriter) {
	setCachePolicy(w, s.cachePolicies.Health)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(s.healthBody))
}

type revalidatePayload struct {
	Secret string `json:"secret"`
	Type   string `json:"type"`
}

type revalidateResponse struct {
	Revalidated bool   `json:"revalidated"`
	Error       string `json:"error,omitempty"`
}

// handleRevalidate accepts the content webhook. The secret is read from the
// JSON body or the X-Revalidate-Secret header.
func (s *Server[C]) handleRevalidate(w http.ResponseWriter, r *http.Request) {
	setCachePolicy(w, defaultFallbackPolicy)
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, revalidateResponse{Error: "method not allowed"})
		return
	}

	var payload revalidatePayload
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, revalidateResponse{Error: "invalid payload"})
			return
		}
	}

	secret := payload.Secret
	if header := r.Header.Get(revalidateSecretHeader); header != "" {
		secret = header
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(s.revalidate.Secret)) != 1 {
		writeJSON(w, http.StatusUnauthorized, revalidateResponse{Error: "invalid secret"})
		return
	}

	if err := s.Invalidate(r.Context()); err != nil {
		s.logger.Error("revalidate", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, revalidateResponse{Error: "purge failed"})
		return
	}

	s.logger.Info("revalidated", zap.String("type", payload.Type))
	writeJSON(w, http.StatusOK, revalidateResponse{Revalidated: true})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func normalizeStaticPrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return defaultStaticPrefix
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}

func normalizePath(path string, fallback string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return fallback
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

func withDefaultPolicies(policies CachePolicies) CachePolicies {
	defaults := DefaultCachePolicies()
	if strings.TrimSpace(policies.HTML) == "" {
		policies.HTML = defaults.HTML
	}
	if strings.TrimSpace(policies.Fallback) == "" {
		policies.Fallback = defaults.Fallback
	}
	if strings.TrimSpace(policies.Static) == "" {
		policies.Static = defaults.Static
	}
	if strings.TrimSpace(policies.Health) == "" {
		policies.Health = defaults.Health
	}
	if strings.TrimSpace(policies.Error) == "" {
		policies.Error = defaults.Error
	}
	return policies
}

func setCachePolicy(w http.ResponseWriter, policy string) {
	policy = strings.TrimSpace(policy)
	if policy == "" {
		return
	}
	w.Header().Set("Cache-Control", policy)
}

func withCachePolicy(policy string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCachePolicy(w, policy)
		next.ServeHTTP(w, r)
	})
}
