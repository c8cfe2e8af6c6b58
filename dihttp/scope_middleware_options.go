package dihttp

import (
	"log/slog"

	"github.com/sectrean/di-chain"
	"github.com/sectrean/di-chain/internal/errors"
)

// RequestScopeMiddlewareOption configures the middleware returned by [NewRequestScopeMiddleware].
type RequestScopeMiddlewareOption interface {
	applyRequestScope(*requestScopeConfig) error
}

type requestScopeOption func(*requestScopeConfig) error

func (o requestScopeOption) applyRequestScope(c *requestScopeConfig) error {
	return o(c)
}

// WithContainerOptions sets the options to use when calling [di.Container.NewScope] for each request.
func WithContainerOptions(opts ...di.ContainerOption) RequestScopeMiddlewareOption {
	return requestScopeOption(func(c *requestScopeConfig) error {
		c.opts = append(c.opts, opts...)
		return nil
	})
}

// WithNewScopeErrorHandler sets the error handler for when there is an error creating a new scope.
func WithNewScopeErrorHandler(h NewScopeErrorHandler) RequestScopeMiddlewareOption {
	return requestScopeOption(func(c *requestScopeConfig) error {
		if h == nil {
			return errors.New("WithNewScopeErrorHandler: h is nil")
		}

		c.newScopeHandler = h
		return nil
	})
}

// WithScopeCloseErrorHandler sets the error handler for when there is an error closing the scope.
func WithScopeCloseErrorHandler(h ScopeCloseErrorHandler) RequestScopeMiddlewareOption {
	return requestScopeOption(func(c *requestScopeConfig) error {
		if h == nil {
			return errors.New("WithScopeCloseErrorHandler: h is nil")
		}

		c.closeHandler = h
		return nil
	})
}

// WithLogger sets the logger used by the default error handlers.
// By default, [slog.Default] is used.
func WithLogger(logger *slog.Logger) RequestScopeMiddlewareOption {
	return requestScopeOption(func(c *requestScopeConfig) error {
		if logger == nil {
			return errors.New("WithLogger: logger is nil")
		}

		c.logger = logger
		return nil
	})
}
