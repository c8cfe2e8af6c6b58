package dihttp

import (
	"log/slog"
	"net/http"

	"github.com/sectrean/di-chain"
	"github.com/sectrean/di-chain/dicontext"
	"github.com/sectrean/di-chain/internal/errors"
)

// NewRequestScopeMiddleware returns middleware that creates a new child scope of the
// [di.Container] for each request. The scope is closed after the request has been processed.
//
// The current [*http.Request] is registered with the scope. It can be used as a dependency
// of Scoped services.
//
// The scope is stored on the request context and can be accessed using [dicontext.Scope],
// [dicontext.Resolve], or [dicontext.MustResolve].
//
// Available options:
//   - [WithContainerOptions] sets options used when creating each request scope.
//   - [WithNewScopeErrorHandler] handles errors creating a new scope.
//   - [WithScopeCloseErrorHandler] handles errors closing the scope.
//   - [WithLogger] sets the logger used by the default error handlers.
func NewRequestScopeMiddleware(
	parent *di.Container,
	opts ...RequestScopeMiddlewareOption,
) (func(http.Handler) http.Handler, error) {
	if parent == nil {
		return nil, errors.New("dihttp.NewRequestScopeMiddleware: parent is nil")
	}

	cfg := &requestScopeConfig{
		parent: parent,
		logger: slog.Default(),
	}

	var errs errors.MultiError
	for _, opt := range opts {
		errs = errs.Append(opt.applyRequestScope(cfg))
	}
	if err := errs.Wrap("dihttp.NewRequestScopeMiddleware"); err != nil {
		return nil, err
	}

	if cfg.newScopeHandler == nil {
		cfg.newScopeHandler = cfg.defaultNewScopeErrorHandler
	}
	if cfg.closeHandler == nil {
		cfg.closeHandler = cfg.defaultScopeCloseErrorHandler
	}

	return func(next http.Handler) http.Handler {
		return &requestScopeMiddleware{
			requestScopeConfig: cfg,
			next:               next,
		}
	}, nil
}

// NewScopeErrorHandler writes an error response to the client when the request
// scope cannot be created.
//
// The default handler logs the error and writes a 500 Internal Server Error response.
type NewScopeErrorHandler = func(w http.ResponseWriter, r *http.Request, err error)

// ScopeCloseErrorHandler handles errors closing the request scope after the
// request has completed.
//
// The default handler logs the error.
type ScopeCloseErrorHandler = func(r *http.Request, err error)

type requestScopeConfig struct {
	parent          *di.Container
	opts            []di.ContainerOption
	newScopeHandler NewScopeErrorHandler
	closeHandler    ScopeCloseErrorHandler
	logger          *slog.Logger
}

func (c *requestScopeConfig) defaultNewScopeErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	c.logger.ErrorContext(r.Context(), "error creating new HTTP request scope",
		slog.String("parent_scope_id", c.parent.ID().String()),
		slog.Any("error", err),
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (c *requestScopeConfig) defaultScopeCloseErrorHandler(r *http.Request, err error) {
	c.logger.ErrorContext(r.Context(), "error closing HTTP request scope",
		slog.String("parent_scope_id", c.parent.ID().String()),
		slog.Any("error", err),
	)
}

type requestScopeMiddleware struct {
	*requestScopeConfig
	next http.Handler
}

func (m *requestScopeMiddleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	opts := make([]di.ContainerOption, 0, len(m.opts)+1)
	opts = append(opts, m.opts...)
	opts = append(opts, di.WithService(r))

	scope, err := m.parent.NewScope(opts...)
	if err != nil {
		m.newScopeHandler(w, r, err)
		return
	}

	ctx := dicontext.WithScope(r.Context(), scope)

	// The scope is closed even if the handler panics
	defer func() {
		if closeErr := scope.Close(ctx); closeErr != nil {
			m.closeHandler(r, closeErr)
		}
	}()

	m.next.ServeHTTP(w, r.WithContext(ctx))
}
